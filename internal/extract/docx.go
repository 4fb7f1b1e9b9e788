package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// extractDocx pulls paragraph text out of a .docx upload. A docx file is a
// zip archive whose word/document.xml holds WordprocessingML: paragraphs are
// <w:p> elements, text runs are <w:t>. One output line per paragraph,
// matching how a person would read the document top to bottom.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open docx archive")
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", eris.Wrap(err, "extract: open document.xml")
			}
			break
		}
	}
	if doc == nil {
		return "", eris.New("extract: docx has no word/document.xml")
	}
	defer doc.Close() //nolint:errcheck

	return parseDocumentXML(doc)
}

// parseDocumentXML streams WordprocessingML, collecting <w:t> character data
// and emitting a newline at the close of each <w:p>.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "extract: parse document.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
