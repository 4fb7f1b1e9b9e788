package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/brd-service/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build classifier training corpora from raw exports",
}

var (
	emailsColumn string
	emailsLimit  int
)

var datasetEmailsCmd = &cobra.Command{
	Use:   "emails <emails.csv> <out.txt>",
	Short: "Extract email bodies from an Enron-style CSV export",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "dataset: open %s", args[0])
		}
		defer in.Close() //nolint:errcheck

		emails, err := dataset.ExtractEmails(in, emailsColumn, emailsLimit)
		if err != nil {
			return err
		}

		if err := writeCorpusFile(args[1], emails, dataset.EmailSeparator); err != nil {
			return err
		}

		zap.L().Info("wrote email corpus",
			zap.String("path", args[1]),
			zap.Int("records", len(emails)),
		)
		return nil
	},
}

var meetingsLimit int

var datasetMeetingsCmd = &cobra.Command{
	Use:   "meetings <transcripts.csv> <out.txt>",
	Short: "Extract meeting transcripts from an AMI-style CSV export",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "dataset: open %s", args[0])
		}
		defer in.Close() //nolint:errcheck

		meetings, err := dataset.ExtractMeetings(in, meetingsLimit)
		if err != nil {
			return err
		}

		if err := writeCorpusFile(args[1], meetings, dataset.MeetingSeparator); err != nil {
			return err
		}

		zap.L().Info("wrote meeting corpus",
			zap.String("path", args[1]),
			zap.Int("records", len(meetings)),
		)
		return nil
	},
}

var chatSeed uint64

var datasetChatsCmd = &cobra.Command{
	Use:   "chats <emails.txt> <out.txt>",
	Short: "Generate synthetic chat messages from an email corpus",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		emails, err := readCorpusFile(args[0], dataset.EmailSeparator)
		if err != nil {
			return err
		}

		chats := dataset.GenerateChats(emails, chatSeed)

		out, err := os.Create(args[1])
		if err != nil {
			return eris.Wrapf(err, "dataset: create %s", args[1])
		}
		defer out.Close() //nolint:errcheck

		for _, chat := range chats {
			if _, err := out.WriteString(chat + "\n"); err != nil {
				return eris.Wrap(err, "dataset: write chats")
			}
		}

		zap.L().Info("wrote chat corpus",
			zap.String("path", args[1]),
			zap.Int("records", len(chats)),
		)
		return nil
	},
}

var multichannelCount int

var datasetMultichannelCmd = &cobra.Command{
	Use:   "multichannel <emails.txt> <meetings.txt> <chats.txt> <out.txt>",
	Short: "Combine email, meeting, and chat corpora into multichannel samples",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var emails, meetings, chats []string

		// The three sources are independent; load them concurrently.
		g := new(errgroup.Group)
		g.Go(func() (err error) {
			emails, err = readCorpusFile(args[0], dataset.EmailSeparator)
			return err
		})
		g.Go(func() (err error) {
			meetings, err = readCorpusFile(args[1], dataset.MeetingSeparator)
			return err
		})
		g.Go(func() (err error) {
			chats, err = readLines(args[2])
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		samples := dataset.BuildMultichannel(emails, meetings, chats, multichannelCount)

		out, err := os.Create(args[3])
		if err != nil {
			return eris.Wrapf(err, "dataset: create %s", args[3])
		}
		defer out.Close() //nolint:errcheck

		for _, sample := range samples {
			if _, err := out.WriteString(sample + "\n============================\n\n"); err != nil {
				return eris.Wrap(err, "dataset: write samples")
			}
		}

		zap.L().Info("wrote multichannel corpus",
			zap.String("path", args[3]),
			zap.Int("samples", len(samples)),
		)
		return nil
	},
}

func writeCorpusFile(path string, records []string, separator string) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	defer out.Close() //nolint:errcheck
	return dataset.WriteCorpus(out, records, separator)
}

func readCorpusFile(path, separator string) ([]string, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer in.Close() //nolint:errcheck
	return dataset.ReadCorpus(in, separator)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func init() {
	datasetEmailsCmd.Flags().StringVar(&emailsColumn, "column", "message", "CSV column holding the email message")
	datasetEmailsCmd.Flags().IntVar(&emailsLimit, "limit", 500, "maximum emails to extract (0 = no limit)")
	datasetMeetingsCmd.Flags().IntVar(&meetingsLimit, "limit", 200, "maximum transcripts to extract (0 = no limit)")
	datasetChatsCmd.Flags().Uint64Var(&chatSeed, "seed", 1, "seed for role assignment")
	datasetMultichannelCmd.Flags().IntVar(&multichannelCount, "count", 100, "number of multichannel samples to build")

	datasetCmd.AddCommand(datasetEmailsCmd, datasetMeetingsCmd, datasetChatsCmd, datasetMultichannelCmd)
	rootCmd.AddCommand(datasetCmd)
}
