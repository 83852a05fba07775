package embedding

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/utils"
)

type encodeTask struct {
	texts  []string
	result chan<- encodeResult
}

type encodeResult struct {
	vectors [][]float64
	err     error
}

// PythonEncoder runs a pool of Python processes, each holding one loaded
// Hugging Face encoder, and feeds them batches over a JSON-lines protocol.
type PythonEncoder struct {
	logger    *utils.Logger
	model     string
	maxLength int
	workers   int
	timeout   time.Duration
	script    string
	venv      string
	pyCfg     *config.PythonConfig
	taskQueue chan encodeTask
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type pythonWorker struct {
	id      int
	process *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	exited  chan struct{}
	mu      sync.Mutex
	pool    *PythonEncoder
}

type pythonRequest struct {
	Texts []string `json:"texts"`
}

type pythonResponse struct {
	Embeddings [][]float64          `json:"embeddings"`
	Error      string               `json:"error,omitempty"`
	DebugInfo  *pythonResponseDebug `json:"debug_info"`
}

type pythonResponseDebug struct {
	ProcessingTimeMS int `json:"processing_time_ms"`
	BatchSize        int `json:"batch_size"`
	EmbeddingDim     int `json:"embedding_dim"`
}

func NewPythonEncoder(logger *utils.Logger, model string, cfg *config.SemanticConfig) *PythonEncoder {
	pythonDir := filepath.Join(cfg.Python.ConfigDir, "python")

	return &PythonEncoder{
		logger:    logger,
		model:     model,
		maxLength: cfg.MaxLength,
		workers:   cfg.WorkerCount,
		timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		script:    filepath.Join(pythonDir, "encoder.py"),
		venv:      filepath.Join(cfg.Python.ConfigDir, "venv"),
		pyCfg:     &cfg.Python,
		taskQueue: make(chan encodeTask, 100),
		done:      make(chan struct{}),
	}
}

func (p *PythonEncoder) ModelName() string {
	return p.model
}

// Initialize prepares the virtualenv and starts the workers. It fails only
// when no worker comes up.
func (p *PythonEncoder) Initialize() error {
	p.logger.Info(nil, "Initializing Python encoder %s with %d workers", p.model, p.workers)

	if err := p.setupEnvironment(); err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}

	started := 0
	for i := 0; i < p.workers; i++ {
		worker, err := p.startWorker(i)
		if err != nil {
			p.logger.Error(nil, "Failed to start worker %d: %v", i, err)
			continue
		}
		started++
		p.wg.Add(1)
		go p.runWorker(worker)
	}

	if started == 0 {
		return fmt.Errorf("no python worker started for %s", p.model)
	}

	p.logger.Info(nil, "Python encoder %s initialized with %d workers", p.model, started)
	return nil
}

func (p *PythonEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result := make(chan encodeResult, 1)
	task := encodeTask{texts: texts, result: result}

	select {
	case p.taskQueue <- task:
	case <-p.done:
		return nil, ErrEncoderClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-result:
		return res.vectors, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *PythonEncoder) runWorker(worker *pythonWorker) {
	defer p.wg.Done()
	defer func() {
		if worker != nil {
			worker.close()
		}
	}()

	for {
		select {
		case <-p.done:
			return
		case task := <-p.taskQueue:
			vectors, err := worker.encode(task.texts)
			task.result <- encodeResult{vectors: vectors, err: err}
			if err == nil {
				continue
			}

			// a failed exchange leaves the pipe out of sync, so restart
			p.logger.Error(nil, "Python worker %d failed, restarting: %v", worker.id, err)
			worker.close()
			worker, err = p.startWorker(worker.id)
			if err != nil {
				p.logger.Error(nil, "Failed to restart worker: %v", err)
				return
			}
		}
	}
}

func (p *PythonEncoder) startWorker(id int) (*pythonWorker, error) {
	python := filepath.Join(p.venv, "bin", "python")

	cmd := exec.Command(python, p.script)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("start process: %w", err)
	}

	worker := &pythonWorker{
		id:      id,
		process: cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		exited:  make(chan struct{}),
		pool:    p,
	}
	go func() {
		cmd.Wait()
		close(worker.exited)
	}()

	startup := map[string]any{
		"model_name": p.model,
		"max_length": p.maxLength,
	}
	if err := worker.send(startup); err != nil {
		worker.close()
		return nil, fmt.Errorf("send config: %w", err)
	}

	line, err := worker.readLine(time.Duration(p.pyCfg.ProcessStartupTimeout) * time.Second)
	if err != nil {
		worker.close()
		return nil, fmt.Errorf("failed to read READY message: %w", err)
	}

	var readyMsg struct {
		Status       string `json:"status"`
		EmbeddingDim int    `json:"embedding_dim"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(line, &readyMsg); err != nil {
		worker.close()
		return nil, fmt.Errorf("failed to parse ready message: %w", err)
	}

	if readyMsg.Status != "ready" {
		worker.close()
		return nil, fmt.Errorf("unexpected startup status %q: %s", readyMsg.Status, readyMsg.Error)
	}

	p.logger.Debug(nil, "Python worker %d ready (model=%s, embedding_dim=%d)", id, p.model, readyMsg.EmbeddingDim)

	return worker, nil
}

func (w *pythonWorker) send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	payload = append(payload, '\n')
	_, err = w.stdin.Write(payload)
	return err
}

// readLine waits for one response line. A zero timeout waits until the
// process exits.
func (w *pythonWorker) readLine(timeout time.Duration) ([]byte, error) {
	type lineResult struct {
		line []byte
		err  error
	}
	ch := make(chan lineResult, 1)
	go func() {
		line, err := w.stdout.ReadBytes('\n')
		ch <- lineResult{line: bytes.TrimSpace(line), err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("read stdout: %w", res.err)
		}
		return res.line, nil
	case <-expired:
		// killing the process unblocks the pending read
		w.process.Process.Kill()
		return nil, fmt.Errorf("no response within %s", timeout)
	}
}

func (w *pythonWorker) encode(texts []string) ([][]float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.send(pythonRequest{Texts: texts}); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	line, err := w.readLine(w.pool.timeout)
	if err != nil {
		return nil, err
	}

	var resp pythonResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("python error: %s", resp.Error)
	}

	if resp.DebugInfo != nil {
		w.pool.logger.Debug(
			nil,
			"Python encoder stats: worker=%d, process_ms=%d, batch=%d, dim=%d",
			w.id,
			resp.DebugInfo.ProcessingTimeMS,
			resp.DebugInfo.BatchSize,
			resp.DebugInfo.EmbeddingDim,
		)
	}

	return resp.Embeddings, nil
}

// close lets the process exit on EOF, then kills it after the shutdown
// timeout.
func (w *pythonWorker) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stdin != nil {
		w.stdin.Close()
	}

	shutdown := time.Duration(w.pool.pyCfg.ProcessShutdownTimeout) * time.Second
	select {
	case <-w.exited:
		return
	case <-time.After(shutdown):
	}

	w.process.Process.Kill()

	select {
	case <-w.exited:
	case <-time.After(time.Duration(w.pool.pyCfg.ProcessKillTimeout) * time.Second):
		w.pool.logger.Error(nil, "Python worker %d did not exit after kill", w.id)
	}
}

func (p *PythonEncoder) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
	return nil
}

func (p *PythonEncoder) setupEnvironment() error {
	if err := os.MkdirAll(p.pyCfg.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := p.extractScriptIfNeeded(); err != nil {
		return fmt.Errorf("failed to extract script: %w", err)
	}

	if err := p.checkPython(); err != nil {
		return fmt.Errorf("python check failed: %w", err)
	}

	if err := p.createVenv(); err != nil {
		return fmt.Errorf("failed to create venv: %w", err)
	}

	if err := p.installRequirements(); err != nil {
		return fmt.Errorf("failed to install requirements: %w", err)
	}

	return nil
}

func (p *PythonEncoder) checkPython() error {
	cmd := exec.Command("python3", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("python3 not found: %w", err)
	}

	p.logger.Debug(nil, "Python3 found")
	return nil
}

func (p *PythonEncoder) createVenv() error {
	venvPython := filepath.Join(p.venv, "bin", "python")

	if _, err := os.Stat(venvPython); err == nil {
		p.logger.Debug(nil, "Virtual environment already exists at %s", p.venv)
		return nil
	}

	p.logger.Info(nil, "Creating virtual environment at %s", p.venv)

	cmd := exec.Command("python3", "-m", "venv", p.venv)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create venv: %s: %w", output, err)
	}

	p.logger.Info(nil, "Virtual environment created successfully")
	return nil
}

func (p *PythonEncoder) installRequirements() error {
	venvPip := filepath.Join(p.venv, "bin", "pip")
	requirementsPath := filepath.Join(filepath.Dir(p.script), "requirements.txt")

	p.logger.Info(nil, "Installing Python requirements from %s", requirementsPath)

	cmd := exec.Command(venvPip, "install", "-r", requirementsPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to install requirements: %s: %w", output, err)
	}

	p.logger.Info(nil, "Python requirements installed successfully")
	return nil
}

// extractScriptIfNeeded writes the embedded script and requirements unless
// identical copies are already on disk.
func (p *PythonEncoder) extractScriptIfNeeded() error {
	pythonDir := filepath.Dir(p.script)

	if err := os.MkdirAll(pythonDir, 0755); err != nil {
		return fmt.Errorf("failed to create python directory: %w", err)
	}

	files := []struct {
		path    string
		content string
		mode    os.FileMode
	}{
		{p.script, embeddedPythonScript, 0755},
		{filepath.Join(pythonDir, "requirements.txt"), requirementsContent(), 0644},
	}

	for _, f := range files {
		if existing, err := os.ReadFile(f.path); err == nil && string(existing) == f.content {
			p.logger.Debug(nil, "%s is up to date", f.path)
			continue
		}

		p.logger.Info(nil, "Extracting embedded file to %s", f.path)
		if err := os.WriteFile(f.path, []byte(f.content), f.mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	return nil
}
