package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/vms-predict/internal/common"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/Veraticus/vms-predict/internal/predictor"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const batchUsage = "Usage: vms batch <records_file> <model_path>"

// maxRecordLine bounds a single JSONL record.
const maxRecordLine = 1 << 20

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <records_file> <model_path>",
		Short: "Predict every request in a JSON Lines file",
		Long: `Batch reads one JSON request object per line and writes one compact JSON
result per line, in input order. A line that cannot be parsed or predicted
produces an error object on its line; the rest of the batch continues.

Progress is shown on stderr.`,
		Args: cobra.ArbitraryArgs,
		RunE: a.runBatch,
	}

	cmd.Flags().Bool("strict", false, "exit with status 3 when any record could not be predicted")
	cmd.Flags().Bool("fallback-rules", false, "use rule-based assessment when the model fails or is unsure")
	cmd.Flags().Bool("no-cache", false, "bypass the prediction cache")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")

	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return a.fail(common.ErrUsage, errors.New(batchUsage), exitUsage)
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	lines, err := readLines(args[0])
	if err != nil {
		return a.fail(common.InputKind(err), err, exitUsage)
	}

	rt := a.newRuntime(cmd.Context())
	defer rt.Close()

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetWriter(a.stderr),
		progressbar.OptionSetVisibility(!quiet),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Predicting"),
	)

	var failed int
	for i, line := range lines {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		result := a.predictLine(cmd, rt, i+1, line, args[1])
		if _, ok := result.(model.ErrorResult); ok {
			failed++
		}
		if err := predictor.WriteLine(a.stdout, result); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	a.logger.Info("Batch complete", "records", len(lines), "failed", failed)
	if failed > 0 && a.settings.Strict {
		return &common.ExitError{Err: fmt.Errorf("%d of %d records not predicted", failed, len(lines)), Code: exitStrict}
	}
	return nil
}

func (a *app) predictLine(cmd *cobra.Command, rt *runtime, lineNo int, line []byte, modelPath string) any {
	raw, err := decodeRecord(json.NewDecoder(bytes.NewReader(line)))
	if err != nil {
		a.logger.Warn("Skipping unreadable record", "line", lineNo, "error", err)
		return model.ErrorResult{Error: fmt.Sprintf("line %d: %v", lineNo, err)}
	}

	p, err := rt.engine.Predict(cmd.Context(), raw, modelPath)
	if err != nil {
		a.logger.Warn("Record not predicted", "line", lineNo, "error", err)
		return model.ErrorResult{Error: err.Error()}
	}
	return p
}

// readLines returns the non-blank lines of path.
func readLines(path string) ([][]byte, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, common.NewInputError(common.ErrInputInvalid, readFailed, err)
	}
	return lines, nil
}
