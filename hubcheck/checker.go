// Package hubcheck validates hubs with the UCSC hubCheck tool before
// anything is stored.
package hubcheck

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Luismorlan/trackhubs/clients"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
)

// ErrUnavailable means the validator could not run at all, as opposed to a
// hub that failed validation.
var ErrUnavailable = errors.New("hub validator unavailable")

type Checker interface {
	Check(ctx context.Context, hubURL string) (*Result, error)
}

// KentHubCheck runs the hubCheck binary, downloading it on first use when it
// is missing.
type KentHubCheck struct {
	path        string
	downloadURL string
	client      *clients.HttpClient

	mu         sync.Mutex
	downloaded bool
}

func NewKentHubCheck(path, downloadURL string, client *clients.HttpClient) *KentHubCheck {
	return &KentHubCheck{path: path, downloadURL: downloadURL, client: client}
}

// Check runs "hubCheck -noTracks <url>". file:/// urls are handed over as
// local: since hubCheck has no file protocol.
func (k *KentHubCheck) Check(ctx context.Context, hubURL string) (*Result, error) {
	if err := k.ensureBinary(ctx); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	target := strings.Replace(hubURL, "file:///", "local:", 1)

	Logger.Log.Infof("running hubCheck on %s", target)
	cmd := exec.CommandContext(ctx, k.path, "-noTracks", target)
	output, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, errors.Wrapf(ErrUnavailable, "run %s: %v", k.path, err)
		}
		exitCode = exitErr.ExitCode()
	}
	result := ParseOutput(target, exitCode, string(output))
	Logger.Log.WithField("hub", hubURL).Infof("hubCheck %s: %s", result.Status, result.Message)
	return result, nil
}

func (k *KentHubCheck) ensureBinary(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.downloaded {
		return nil
	}
	if _, err := os.Stat(k.path); err == nil {
		k.downloaded = true
		return nil
	}
	if k.downloadURL == "" {
		return errors.Errorf("%s is missing and no download url is configured", k.path)
	}

	Logger.Log.Infof("downloading hubCheck from %s", k.downloadURL)
	res, err := k.client.Get(ctx, k.downloadURL)
	if err != nil {
		return errors.Wrap(err, "download hubCheck")
	}
	defer res.Body.Close()

	if err := os.MkdirAll(filepath.Dir(k.path), 0o755); err != nil {
		return errors.Wrap(err, "create hubCheck directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(k.path), ".hubCheck-*")
	if err != nil {
		return errors.Wrap(err, "create hubCheck file")
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, res.Body); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write hubCheck")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "write hubCheck")
	}
	if err := os.Chmod(tmp.Name(), 0o700); err != nil {
		return errors.Wrap(err, "make hubCheck executable")
	}
	if err := os.Rename(tmp.Name(), k.path); err != nil {
		return errors.Wrap(err, "install hubCheck")
	}
	k.downloaded = true
	return nil
}
