package parseresume

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"talentflow-workers/internal/common/errors"
	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/parsing"
)

const profileCachePrefix = "resume:profile:"

type ServiceDependencies struct {
	DB     *sql.DB
	Redis  *redis.Client
	Parser *parsing.Parser
	Logger logger.Logger
}

type Service struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	parser *parsing.Parser
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		db:     deps.DB,
		redis:  deps.Redis,
		parser: deps.Parser,
		logger: deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing resume parse", map[string]interface{}{
		"resumeId":    input.ResumeID,
		"candidateId": input.CandidateID,
		"mimeType":    input.MimeType,
	})

	if input.FileContent == "" && input.FilePath == "" {
		return nil, errors.NewResumeValidationFailedError(
			"Resume document is missing",
			"either fileContent or filePath must be provided",
		)
	}

	var profile *parsing.Profile
	if input.FileContent != "" {
		data, err := base64.StdEncoding.DecodeString(input.FileContent)
		if err != nil {
			return nil, errors.NewResumeValidationFailedError("Resume content is not valid base64", err.Error())
		}
		if len(data) > s.config.MaxFileSizeMB*1024*1024 {
			return nil, errors.NewResumeValidationFailedError(
				fmt.Sprintf("Resume exceeds the %dMB size limit", s.config.MaxFileSizeMB),
				fmt.Sprintf("document is %d bytes", len(data)),
			)
		}
		profile = s.parser.Parse(ctx, data, input.MimeType)
	} else {
		profile = s.parser.ParseFile(ctx, input.FilePath, input.MimeType)
	}

	resumeID := input.ResumeID
	if resumeID == "" {
		resumeID = uuid.New().String()
	}

	// Extraction failures are recorded on the profile, not raised: the job
	// still completes so the workflow can route on parseStatus.
	status := StatusParsed
	if profile.Error != "" {
		status = StatusFailed
		s.logger.Warn("Document could not be parsed", map[string]interface{}{
			"resumeId": resumeID,
			"reason":   profile.Error,
		})
	}

	if err := s.storeResume(ctx, resumeID, input, profile, status); err != nil {
		return nil, err
	}

	// Only successful parses are cached: downstream workers that hit the
	// cache must never see an error profile where they expect skills.
	if status == StatusParsed {
		s.cacheProfile(ctx, resumeID, profile)
	}

	s.logger.Info("Resume parsed", map[string]interface{}{
		"resumeId":   resumeID,
		"status":     status,
		"skills":     len(profile.Skills),
		"confidence": profile.Confidence,
	})

	return &Output{
		ResumeID: resumeID,
		Profile:  profile,
		Status:   status,
	}, nil
}

func (s *Service) storeResume(ctx context.Context, resumeID string, input *Input, profile *parsing.Profile, status string) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		// Not the retryable constructor: a profile that will not serialize
		// fails identically on every attempt.
		return &errors.StandardError{
			Code:      errors.ErrCodeDatabaseInsertFailed,
			Message:   "Failed to serialize parsed profile",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	query := `
		INSERT INTO resumes (id, candidate_id, file_path, mime_type, status, parsed_profile, error, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    parsed_profile = EXCLUDED.parsed_profile,
		    error = EXCLUDED.error,
		    confidence = EXCLUDED.confidence`

	_, err = s.db.ExecContext(ctx, query,
		resumeID,
		input.CandidateID,
		input.FilePath,
		input.MimeType,
		status,
		profileJSON,
		profile.Error,
		profile.Confidence,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	return nil
}

// cacheProfile is best effort. Downstream workers fall back to Postgres when
// the cache misses, so a Redis failure is only worth a warning.
func (s *Service) cacheProfile(ctx context.Context, resumeID string, profile *parsing.Profile) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, profileCachePrefix+resumeID, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache parsed profile", map[string]interface{}{
			"resumeId": resumeID,
			"error":    err.Error(),
		})
	}
}

func (s *Service) TestConnection(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not configured")
	}
	return s.db.PingContext(ctx)
}
