package calculatematchscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/common/metrics"
	"talentflow-workers/internal/matching"
	"talentflow-workers/internal/parsing"
)

const (
	TaskType = "calculate-match-score"

	matchCachePrefix   = "match:result:"
	profileCachePrefix = "resume:profile:"
)

var (
	ErrJobPostingNotFound   = errors.New("JOB_POSTING_NOT_FOUND")
	ErrProfileNotFound      = errors.New("PROFILE_NOT_FOUND")
	ErrMatchScoreFailed     = errors.New("MATCH_SCORE_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

// SimilaritySource yields a semantic similarity in [0, 1] between a resume
// and a job description. A nil source or a failing call degrades scoring to
// keyword-only.
type SimilaritySource interface {
	Similarity(ctx context.Context, resumeID, profileText, jobText string) (float64, error)
}

type Handler struct {
	config     *Config
	db         *sql.DB
	redis      *redis.Client
	similarity SimilaritySource
	logger     logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, similarity SimilaritySource, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		db:         db,
		redis:      redisClient,
		similarity: similarity,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := h.mapErrorToCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error(), h.getRetryCount(err))
		return
	}

	source := "computed"
	if output.FromCache {
		source = "cache"
	}
	metrics.MatchesComputed.WithLabelValues(source).Inc()

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.JobID == "" {
		return nil, fmt.Errorf("%w: jobId is required", ErrJobPostingNotFound)
	}
	if input.Profile == nil && input.ResumeID == "" {
		return nil, fmt.Errorf("%w: either profile or resumeId is required", ErrProfileNotFound)
	}

	if cached := h.getCachedResult(ctx, input); cached != nil {
		h.logger.Info("match score served from cache", map[string]interface{}{
			"jobId":    input.JobID,
			"resumeId": input.ResumeID,
		})
		return cached, nil
	}

	profile := input.Profile
	candidateID := input.CandidateID
	if profile == nil {
		var dbCandidateID string
		var err error
		profile, dbCandidateID, err = h.getProfile(ctx, input.ResumeID)
		if err != nil {
			return nil, err
		}
		if candidateID == "" {
			candidateID = dbCandidateID
		}
	}

	// A profile without parsed content cannot be scored meaningfully. The
	// workflow routes failed parses away from screening on parseStatus.
	if profile.Error != "" {
		return nil, fmt.Errorf("%w: resume %s has no parsed content", ErrProfileNotFound, input.ResumeID)
	}

	job, err := h.getJobPosting(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	result := matching.Score(candidateFromProfile(profile), job.Requirements)

	output := &Output{
		ScreeningID:     uuid.New().String(),
		JobID:           input.JobID,
		ResumeID:        input.ResumeID,
		CandidateID:     candidateID,
		MatchScore:      result.Score,
		SkillMatch:      result.SkillScore,
		ExperienceMatch: result.ExperienceScore,
		EducationMatch:  result.EducationScore,
		Reasoning:       result.Reasoning,
	}

	if h.config.UseSimilarity && h.similarity != nil {
		jobText := strings.TrimSpace(job.Title + "\n" + job.Description + "\n" + strings.Join(job.Requirements, "\n"))
		sim, simErr := h.similarity.Similarity(ctx, input.ResumeID, profile.RawText, jobText)
		if simErr != nil {
			h.logger.Warn("similarity unavailable, keyword-only score", map[string]interface{}{
				"jobId":    input.JobID,
				"resumeId": input.ResumeID,
				"error":    simErr.Error(),
			})
		} else {
			output.MatchScore = matching.CombineWithSimilarity(result.Score, sim)
			output.SimilarityScore = &sim
		}
	}

	if err := h.storeResult(ctx, output); err != nil {
		return nil, err
	}

	h.cacheResult(ctx, input, output)

	h.logger.Info("match score calculated", map[string]interface{}{
		"jobId":       input.JobID,
		"resumeId":    input.ResumeID,
		"screeningId": output.ScreeningID,
		"score":       output.MatchScore,
	})

	return output, nil
}

// candidateFromProfile reduces a parsed profile to the scorer's inputs. Zero
// experience years with no history entries means the resume never said, which
// the scorer treats as neutral.
func candidateFromProfile(profile *parsing.Profile) matching.CandidateProfile {
	candidate := matching.CandidateProfile{Skills: profile.Skills}

	if profile.ExperienceYears > 0 || len(profile.Experience) > 0 {
		years := profile.ExperienceYears
		candidate.ExperienceYears = &years
	}

	for _, entry := range profile.Education {
		if entry.Degree != "" {
			candidate.Education = append(candidate.Education, entry.Degree)
		}
	}

	return candidate
}

func (h *Handler) getCachedResult(ctx context.Context, input *Input) *Output {
	if h.redis == nil || input.ResumeID == "" {
		return nil
	}

	val, err := h.redis.Get(ctx, matchCacheKey(input.JobID, input.ResumeID)).Result()
	if err != nil {
		return nil
	}

	var cached Output
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil
	}
	cached.FromCache = true
	return &cached
}

func (h *Handler) cacheResult(ctx context.Context, input *Input, output *Output) {
	if h.redis == nil || input.ResumeID == "" {
		return
	}

	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, matchCacheKey(input.JobID, input.ResumeID), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache match result", map[string]interface{}{
			"jobId":    input.JobID,
			"resumeId": input.ResumeID,
			"error":    err.Error(),
		})
	}
}

func matchCacheKey(jobID, resumeID string) string {
	return matchCachePrefix + jobID + ":" + resumeID
}

func (h *Handler) getProfile(ctx context.Context, resumeID string) (*parsing.Profile, string, error) {
	cacheKey := profileCachePrefix + resumeID
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile parsing.Profile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, "", nil
			}
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT candidate_id, parsed_profile FROM resumes WHERE id = $1`, resumeID)

	var candidateID string
	var profileJSON []byte
	if err := row.Scan(&candidateID, &profileJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: resume %s", ErrProfileNotFound, resumeID)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	var profile parsing.Profile
	if err := json.Unmarshal(profileJSON, &profile); err != nil {
		return nil, "", fmt.Errorf("%w: stored profile is unreadable: %v", ErrMatchScoreFailed, err)
	}

	if h.redis != nil {
		if data, err := json.Marshal(&profile); err == nil {
			h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
		}
	}

	return &profile, candidateID, nil
}

func (h *Handler) getJobPosting(ctx context.Context, jobID string) (*jobPostingRow, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, title, description, requirements FROM job_postings WHERE id = $1`, jobID)

	var posting jobPostingRow
	var requirements []byte
	if err := row.Scan(&posting.ID, &posting.Title, &posting.Description, &requirements); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: job %s", ErrJobPostingNotFound, jobID)
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	if err := json.Unmarshal(requirements, &posting.Requirements); err != nil {
		posting.Requirements = []string{}
	}

	return &posting, nil
}

func (h *Handler) storeResult(ctx context.Context, output *Output) error {
	scores := map[string]interface{}{
		"match":      output.MatchScore,
		"skill":      output.SkillMatch,
		"experience": output.ExperienceMatch,
		"education":  output.EducationMatch,
	}
	if output.SimilarityScore != nil {
		scores["similarity"] = *output.SimilarityScore
	}
	scoresJSON, _ := json.Marshal(scores)
	analysisJSON, _ := json.Marshal(output)

	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO screening_results (id, job_id, candidate_id, resume_id, scores, reasoning, detailed_analysis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		output.ScreeningID,
		output.JobID,
		output.CandidateID,
		output.ResumeID,
		scoresJSON,
		output.Reasoning,
		analysisJSON,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"screening_scored",
		"screening",
		output.ScreeningID,
		analysisJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":       err,
			"screeningId": output.ScreeningID,
		})
	}

	return nil
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
	if errors.Is(err, ErrJobPostingNotFound) {
		return "JOB_POSTING_NOT_FOUND"
	} else if errors.Is(err, ErrProfileNotFound) {
		return "PROFILE_NOT_FOUND"
	} else if errors.Is(err, ErrDatabaseInsertFailed) {
		return "DATABASE_INSERT_FAILED"
	} else if errors.Is(err, ErrMatchScoreFailed) {
		return "MATCH_SCORE_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrDatabaseInsertFailed) || errors.Is(err, ErrMatchScoreFailed) {
		return 3
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
