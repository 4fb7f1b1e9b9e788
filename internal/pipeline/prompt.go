package pipeline

import "fmt"

// brdSchema is the JSON skeleton both prompts require the model to fill.
const brdSchema = `{
    "executive_summary": "",
    "business_objectives": [],
    "stakeholders": [],
    "functional_requirements": [],
    "non_functional_requirements": [],
    "assumptions": [],
    "timeline": "",
    "conflicts": []
}`

const generatePromptFormat = `You are a professional Business Analyst.

From the following communication data:
1. Extract ONLY project-related information.
2. Ignore personal or irrelevant content.
3. Return STRICT JSON matching the schema below. No markdown fences, no explanatory prose.
4. When information is missing, infer reasonable business details instead of leaving fields empty.
5. Surface any contradictory statements (for example differing timelines or conflicting requirements) in the "conflicts" field.

JSON format:
%s

Communication Data:
%s`

const editPromptFormat = `You are a professional Business Analyst revising an existing Business Requirements Document.

Apply the instruction to the current BRD and return the full updated document:
1. Change only what the instruction requires; keep everything else intact.
2. Return STRICT JSON matching the schema below. No markdown fences, no explanatory prose.
3. When the instruction implies missing information, infer reasonable business details.
4. Surface any contradictions the instruction introduces in the "conflicts" field.

JSON format:
%s

Current BRD:
%s

Instruction:
%s`

// GeneratePrompt renders the extraction instructions around the
// communication text. Deterministic: one interpolation point.
func GeneratePrompt(text string) string {
	return fmt.Sprintf(generatePromptFormat, brdSchema, text)
}

// EditPrompt renders the revision instructions around the current BRD JSON
// and the caller's instruction.
func EditPrompt(currentBRD, instruction string) string {
	return fmt.Sprintf(editPromptFormat, brdSchema, currentBRD, instruction)
}
