package indexprofile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/matching/vector"
)

const (
	TaskType = "index-profile"
)

var (
	ErrProfileNotFound               = errors.New("PROFILE_NOT_FOUND")
	ErrIndexingFailed                = errors.New("INDEXING_FAILED")
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
)

type Handler struct {
	config      *Config
	client      *elasticsearch.Client
	vectorIndex *vector.Index
	embedder    *vector.HashingEmbedder
	logger      logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, vectorIndex *vector.Index, embedder *vector.HashingEmbedder, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		client:      client,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := h.mapErrorToCode(err)
		retries := h.getRetryCount(err)
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.ResumeID == "" {
		return nil, fmt.Errorf("%w: resumeId is required", ErrProfileNotFound)
	}
	if input.Profile == nil {
		return nil, fmt.Errorf("%w: no profile for resume %s", ErrProfileNotFound, input.ResumeID)
	}

	// Failed parses carry no searchable content. Completing with
	// indexed=false lets the workflow route on the outcome.
	if input.Profile.Error != "" {
		h.logger.Warn("skipping profile without content", map[string]interface{}{
			"resumeId": input.ResumeID,
			"reason":   input.Profile.Error,
		})
		return &Output{
			ResumeID: input.ResumeID,
			Indexed:  false,
			Reason:   "profile has no extracted content",
		}, nil
	}

	if err := h.indexDocument(ctx, input); err != nil {
		return nil, err
	}

	h.upsertEmbedding(input)

	h.logger.Info("profile indexed", map[string]interface{}{
		"resumeId": input.ResumeID,
		"index":    h.config.IndexName,
	})

	return &Output{
		ResumeID: input.ResumeID,
		Indexed:  true,
	}, nil
}

func (h *Handler) indexDocument(ctx context.Context, input *Input) error {
	doc := map[string]interface{}{
		"resume_id":        input.ResumeID,
		"candidate_id":     input.CandidateID,
		"name":             input.Profile.PersonalInfo.Name,
		"email":            input.Profile.PersonalInfo.Email,
		"location":         input.Profile.PersonalInfo.Location,
		"raw_text":         input.Profile.RawText,
		"skills":           input.Profile.Skills,
		"experience_years": input.Profile.ExperienceYears,
		"confidence":       input.Profile.Confidence,
		"indexed_at":       time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexingFailed, err)
	}

	res, err := h.client.Index(
		h.config.IndexName,
		bytes.NewReader(body),
		h.client.Index.WithDocumentID(input.ResumeID),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %v", ErrIndexingFailed, err)
		}
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexingFailed, res.String())
	}

	return nil
}

// upsertEmbedding keeps the in-process similarity index in step with the
// search index. The index is optional and the embedder is deterministic, so
// a worker restart rebuilds the same vectors as profiles are re-indexed.
func (h *Handler) upsertEmbedding(input *Input) {
	if h.vectorIndex == nil || h.embedder == nil {
		return
	}

	vec := h.embedder.Embed(input.Profile.RawText)
	h.vectorIndex.Upsert(h.config.Namespace, input.ResumeID, vec, map[string]string{
		"candidate_id": input.CandidateID,
	})
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrProfileNotFound) {
		return "PROFILE_NOT_FOUND"
	} else if errors.Is(err, ErrIndexingFailed) {
		return "INDEXING_FAILED"
	} else if errors.Is(err, ErrElasticsearchConnectionFailed) {
		return "ELASTICSEARCH_CONNECTION_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrIndexingFailed) || errors.Is(err, ErrElasticsearchConnectionFailed) {
		return 3
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
