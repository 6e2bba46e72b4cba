package docstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// UploadJob is one attachment queued for background upload.
type UploadJob struct {
	DocumentID     int64
	CustomerNumber string
	Slot           string
	FileName       string
	ContentType    string
	Content        []byte
}

// ResultFunc receives the outcome of a background upload so the caller can
// record it against the document row.
type ResultFunc func(job UploadJob, storageRef string, err error)

type Worker struct {
	ID         int
	WorkerPool chan chan UploadJob
	JobChannel chan UploadJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan UploadJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan UploadJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(UploadJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing upload", "worker_id", w.ID, "document_id", job.DocumentID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client talks to the external document store. Synchronous uploads serve the
// submission flow; the worker pool drains queued retries for documents whose
// first upload failed.
type Client struct {
	baseURL       string
	apiKey        string
	uploadTimeout time.Duration
	httpClient    *http.Client
	logger        *slog.Logger

	jobQueue   chan UploadJob
	workerPool chan chan UploadJob
	maxWorkers int
	onResult   ResultFunc
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	BaseURL        string
	APIKey         string
	UploadTimeout  time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	uploadTimeout := config.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}

	client := &Client{
		baseURL:       config.BaseURL,
		apiKey:        config.APIKey,
		uploadTimeout: uploadTimeout,
		httpClient:    &http.Client{Timeout: uploadTimeout},
		logger:        logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan UploadJob, jobQueueSize),
		workerPool: make(chan chan UploadJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

// SetResultHandler installs the callback invoked after each background
// upload. Must be set before jobs are enqueued.
func (c *Client) SetResultHandler(fn ResultFunc) {
	c.onResult = fn
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {

		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processUploadJob)
		}

		go c.dispatch()

		c.logger.Info("document store worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:

			select {
			case jobChannel := <-c.workerPool:

				select {
				case jobChannel <- job:

				case <-c.ctx.Done():
					c.logger.Info("dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down document store client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("document store client shutdown complete")
}

// Upload pushes one attachment synchronously and returns the storage
// reference the store assigned.
func (c *Client) Upload(ctx context.Context, customerNumber, slot, fileName, contentType string, content []byte) (string, error) {
	payload := map[string]interface{}{
		"customer_number": customerNumber,
		"slot":            slot,
		"file_name":       fileName,
		"content_type":    contentType,
		"content":         base64.StdEncoding.EncodeToString(content),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/documents", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("document store returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Data struct {
			StorageRef string `json:"storage_ref"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("document uploaded to store",
		"customer_number", customerNumber,
		"slot", slot,
		"storage_ref", apiResponse.Data.StorageRef)

	return apiResponse.Data.StorageRef, nil
}

// Enqueue hands an upload to the worker pool. A full queue is reported to
// the caller rather than blocking the submission path.
func (c *Client) Enqueue(job UploadJob) error {
	select {
	case c.jobQueue <- job:
		c.logger.Info("upload job queued",
			"document_id", job.DocumentID,
			"slot", job.Slot,
			"queue_length", len(c.jobQueue))
		return nil
	default:
		c.logger.Warn("upload queue full, rejecting job",
			"document_id", job.DocumentID,
			"queue_capacity", cap(c.jobQueue))
		return fmt.Errorf("upload queue full, please try again later")
	}
}

func (c *Client) processUploadJob(job UploadJob) {
	ref, err := c.Upload(c.ctx, job.CustomerNumber, job.Slot, job.FileName, job.ContentType, job.Content)
	if err != nil {
		c.logger.Error("background upload failed",
			"document_id", job.DocumentID,
			"slot", job.Slot,
			"error", err)
	}

	if c.onResult != nil {
		c.onResult(job, ref, err)
	}
}
