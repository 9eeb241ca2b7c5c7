// Package benchmark builds an image from Dockerfile text via the docker
// CLI and records build time, image size, and layer count. It is pure I/O
// orchestration around the container engine and does no analysis itself.
package benchmark

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Nash0810/docktor/internal/ir"
)

type Runner struct {
	// Docker is the engine binary to invoke; defaults to "docker".
	Docker string
	// Timeout bounds the whole build; defaults to 10 minutes.
	Timeout time.Duration
	// Quiet suppresses the progress spinner.
	Quiet bool
}

// Available reports whether the engine daemon answers.
func (r *Runner) Available(ctx context.Context) bool {
	return exec.CommandContext(ctx, r.docker(), "info").Run() == nil
}

// Run writes the Dockerfile into a temp build context, builds it, and
// collects metrics. Build failures land in the result's ErrorMessage, not
// in the returned error: only setup problems (temp dir, missing binary)
// are errors.
func (r *Runner) Run(ctx context.Context, dockerfile, imageTag string) (ir.BenchmarkResult, error) {
	result := ir.BenchmarkResult{ImageTag: imageTag}

	dir, err := os.MkdirTemp("", "docktor-bench-*")
	if err != nil {
		return result, err
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(dockerfile), 0o644); err != nil {
		return result, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	start := time.Now()
	if err := r.build(ctx, dir, imageTag); err != nil {
		result.ErrorMessage = err.Error()
		return result, nil
	}
	result.BuildTimeSeconds = float64(int(time.Since(start).Seconds()*100)) / 100

	defer func() {
		// Always clean the image up, even if inspection failed.
		_ = exec.Command(r.docker(), "rmi", "-f", imageTag).Run()
	}()

	if size, err := r.imageSize(ctx, imageTag); err == nil {
		result.ImageSizeMB = float64(int(size/1024.0/1024.0*100)) / 100
	}
	if layers, err := r.layerCount(ctx, imageTag); err == nil {
		result.LayerCount = layers
	}
	return result, nil
}

func (r *Runner) build(ctx context.Context, dir, imageTag string) error {
	cmd := exec.CommandContext(ctx, r.docker(), "build", "--force-rm", "-t", imageTag, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !r.Quiet {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("building "+imageTag),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("docker build failed: %s", msg)
	}
	return nil
}

func (r *Runner) imageSize(ctx context.Context, imageTag string) (float64, error) {
	out, err := exec.CommandContext(ctx, r.docker(), "image", "inspect", "--format", "{{.Size}}", imageTag).Output()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

func (r *Runner) layerCount(ctx context.Context, imageTag string) (int, error) {
	out, err := exec.CommandContext(ctx, r.docker(), "history", "-q", imageTag).Output()
	if err != nil {
		return 0, err
	}
	lines := strings.Fields(strings.TrimSpace(string(out)))
	return len(lines), nil
}

func (r *Runner) docker() string {
	if r.Docker != "" {
		return r.Docker
	}
	return "docker"
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 10 * time.Minute
}
