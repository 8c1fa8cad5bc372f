package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/Veraticus/vms-predict/internal/common"
	"github.com/Veraticus/vms-predict/internal/predictor"
	"github.com/spf13/cobra"
)

// Exit codes. Pipeline failures exit with exitOK unless strict mode is on;
// the error object on stdout is the signal callers are expected to read.
const (
	exitOK     = 0
	exitUsage  = 1
	exitStrict = 3
)

const (
	predictUsage = "Usage: vms predict <data_file> <model_path>"
	readFailed   = "Could not read data file"
)

func (a *app) predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <data_file> <model_path>",
		Short: "Predict the maintenance category of one request",
		Long: `Predict reads one maintenance request as a JSON object and prints the
predicted maintenance category with its confidence as a JSON object.

Fields missing from the request are filled with defaults and recorded in the
result's "fallbacks" list. When no prediction can be made the result is an
object holding only "error".`,
		Args: cobra.ArbitraryArgs,
		RunE: a.runPredict,
	}

	cmd.Flags().Bool("strict", false, "exit with status 3 when no prediction could be made")
	cmd.Flags().Bool("fallback-rules", false, "use rule-based assessment when the model fails or is unsure")
	cmd.Flags().Bool("no-cache", false, "bypass the prediction cache")

	return cmd
}

func (a *app) runPredict(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return a.fail(common.ErrUsage, errors.New(predictUsage), exitUsage)
	}
	dataFile, modelPath := args[0], args[1]

	raw, err := readRecord(dataFile)
	if err != nil {
		return a.fail(common.InputKind(err), err, exitUsage)
	}

	rt := a.newRuntime(cmd.Context())
	defer rt.Close()

	p, err := rt.engine.Predict(cmd.Context(), raw, modelPath)
	if err != nil {
		code := exitOK
		if a.settings.Strict {
			code = exitStrict
		}
		return a.fail(nil, err, code)
	}
	return predictor.WriteResult(a.stdout, p)
}

// fail writes err as the JSON error object and returns the exit status for
// main. kind, when set, is attached for logging only.
func (a *app) fail(kind, err error, code int) error {
	a.logger.Error("Prediction not produced", "error", err, "kind", kind, "exit_code", code)
	if werr := predictor.WriteError(a.stdout, err); werr != nil {
		return werr
	}
	if code == exitOK {
		return nil
	}
	return &common.ExitError{Err: err, Code: code}
}

// readRecord loads one request object. Numbers are kept as json.Number so
// that integer fields are not widened through float64.
func readRecord(path string) (map[string]any, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decodeRecord(json.NewDecoder(f))
}

func decodeRecord(dec *json.Decoder) (map[string]any, error) {
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, common.NewInputError(common.ErrInputInvalid, readFailed, err)
	}
	if raw == nil {
		return nil, common.NewInputError(common.ErrInputInvalid, readFailed+": record is null", nil)
	}
	return raw, nil
}

// openInput opens a caller-supplied data file.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewInputError(common.ErrInputMissing, "Data file does not exist: "+path, nil)
		}
		return nil, common.NewInputError(common.ErrInputInvalid, readFailed, err)
	}
	return f, nil
}
