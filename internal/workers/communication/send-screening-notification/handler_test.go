package sendscreeningnotification

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"talentflow-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "screening@talentflow.io",
		AWSRegion:    "us-east-1",
		Timeout:      30 * time.Second,
	}
}

func createTestInput(notificationType string) *Input {
	return &Input{
		RecipientID:      "recruiter-001",
		RecipientType:    RecipientTypeRecruiter,
		NotificationType: notificationType,
		ScreeningID:      "screening-001",
		Priority:         "high",
		Metadata: map[string]interface{}{
			"candidateName": "John Doe",
			"jobTitle":      "Senior Backend Engineer",
			"matchScore":    0.85,
		},
	}
}

// Create a test logger that implements your logger.Logger interface
type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		emailEnabled   bool
		smsEnabled     bool
		priority       string
		expectedStatus string
	}{
		{
			name:           "email and SMS for high priority",
			emailEnabled:   true,
			smsEnabled:     true,
			priority:       "high",
			expectedStatus: StatusSent,
		},
		{
			name:           "email only for normal priority",
			emailEnabled:   true,
			smsEnabled:     true,
			priority:       "normal",
			expectedStatus: StatusSent,
		},
		{
			name:           "SMS only for high priority",
			emailEnabled:   false,
			smsEnabled:     true,
			priority:       "high",
			expectedStatus: StatusSent,
		},
		{
			name:           "nothing sent when channels are off",
			emailEnabled:   false,
			smsEnabled:     true,
			priority:       "normal",
			expectedStatus: StatusDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
				WithArgs("recruiter-001").
				WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
					AddRow("recruiter@talentflow.io", "+1234567890"))
			mock.ExpectExec("INSERT INTO notifications").
				WillReturnResult(sqlmock.NewResult(1, 1))

			mockSES := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					assert.Equal(t, "recruiter@talentflow.io", params.Destination.ToAddresses[0])
					assert.Equal(t, "screening@talentflow.io", *params.Source)
					return &ses.SendEmailOutput{}, nil
				},
			}

			mockSNS := &MockSNSService{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					assert.Equal(t, "+1234567890", *params.PhoneNumber)
					return &sns.PublishOutput{}, nil
				},
			}

			config := createTestConfig()
			config.EmailEnabled = tt.emailEnabled
			config.SMSEnabled = tt.smsEnabled

			handler := &Handler{
				config:      config,
				db:          db,
				logger:      newTestLogger(t),
				sesClient:   mockSES,
				snsClient:   mockSNS,
				templateMap: defaultTemplates(),
			}

			input := createTestInput(TypeScreeningCompleted)
			input.Priority = tt.priority
			output, err := handler.Execute(context.Background(), input)

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Status)
			assert.NotEmpty(t, output.NotificationID)
			assert.NotEmpty(t, output.SentAt)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_RecipientNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-001").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	config := createTestConfig()
	handler, err := NewHandler(config, db, newTestLogger(t))
	assert.NoError(t, err)

	// Replace with mock clients
	handler.sesClient = &MockSESService{}
	handler.snsClient = &MockSNSService{}

	input := createTestInput(TypeScreeningCompleted)
	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.NotEmpty(t, output.NotificationID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmailFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-001").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("recruiter@talentflow.io", "+1234567890"))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES service unavailable")
		},
	}

	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}

	handler := &Handler{
		config:      createTestConfig(),
		db:          db,
		logger:      newTestLogger(t),
		sesClient:   mockSES,
		snsClient:   mockSNS,
		templateMap: defaultTemplates(),
	}

	output, err := handler.Execute(context.Background(), createTestInput(TypeScreeningCompleted))

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, StatusFailed, output.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SMSFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-001").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("recruiter@talentflow.io", "+1234567890"))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}

	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("SNS service unavailable")
		},
	}

	handler := &Handler{
		config:      createTestConfig(),
		db:          db,
		logger:      newTestLogger(t),
		sesClient:   mockSES,
		snsClient:   mockSNS,
		templateMap: defaultTemplates(),
	}

	output, err := handler.Execute(context.Background(), createTestInput(TypeHighMatchAlert))

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, StatusFailed, output.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_TemplateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-001").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("recruiter@talentflow.io", "+1234567890"))

	config := createTestConfig()
	handler, err := NewHandler(config, db, newTestLogger(t))
	assert.NoError(t, err)

	handler.sesClient = &MockSESService{}
	handler.snsClient = &MockSNSService{}

	input := createTestInput("unknown_template_type")
	output, err := handler.Execute(context.Background(), input)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "template not found")
	assert.Nil(t, output)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RecordFailureIsNonFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-001").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("recruiter@talentflow.io", "+1234567890"))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnError(errors.New("notifications table locked"))

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}

	handler := &Handler{
		config:      createTestConfig(),
		db:          db,
		logger:      newTestLogger(t),
		sesClient:   mockSES,
		snsClient:   mockSNS,
		templateMap: defaultTemplates(),
	}

	output, err := handler.Execute(context.Background(), createTestInput(TypeScreeningCompleted))

	assert.NoError(t, err, "the notification already went out, the job must still complete")
	assert.Equal(t, StatusSent, output.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Unit Tests
// ==========================

func TestHandler_GetRecipientContact(t *testing.T) {
	tests := []struct {
		name          string
		recipientType string
		query         string
		expectedEmail string
		expectedPhone string
		expectError   bool
		errorContains string
	}{
		{
			name:          "recruiter recipient",
			recipientType: RecipientTypeRecruiter,
			query:         `SELECT email, phone FROM recruiters WHERE id = \$1`,
			expectedEmail: "recruiter@talentflow.io",
			expectedPhone: "+1234567890",
		},
		{
			name:          "candidate recipient",
			recipientType: RecipientTypeCandidate,
			query:         `SELECT email, phone FROM candidates WHERE id = \$1`,
			expectedEmail: "candidate@example.com",
			expectedPhone: "+1987654321",
		},
		{
			name:          "invalid recipient type",
			recipientType: "invalid",
			expectError:   true,
			errorContains: "invalid recipient type",
		},
		{
			name:          "recipient not found",
			recipientType: RecipientTypeRecruiter,
			query:         `SELECT email, phone FROM recruiters WHERE id = \$1`,
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			handler := &Handler{db: db, logger: newTestLogger(t)}

			if !tt.expectError || tt.recipientType == "invalid" {
				if tt.recipientType != "invalid" {
					mock.ExpectQuery(tt.query).
						WithArgs("recipient-001").
						WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
							AddRow(tt.expectedEmail, tt.expectedPhone))
				}
			} else {
				mock.ExpectQuery(tt.query).
					WithArgs("recipient-001").
					WillReturnError(sql.ErrNoRows)
			}

			email, phone, err := handler.getRecipientContact("recipient-001", tt.recipientType)

			if tt.expectError {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedEmail, email)
				assert.Equal(t, tt.expectedPhone, phone)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_RenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]interface{}
		expected string
	}{
		{
			name:     "simple replacement",
			template: "Hello {{candidateName}}, screening {{screeningId}} is complete.",
			data: map[string]interface{}{
				"candidateName": "John Doe",
				"screeningId":   "SCR-123",
			},
			expected: "Hello John Doe, screening SCR-123 is complete.",
		},
		{
			name:     "float score value",
			template: "Candidate scored {{matchScore}} for {{jobTitle}}.",
			data: map[string]interface{}{
				"matchScore": 0.85,
				"jobTitle":   "Senior Backend Engineer",
			},
			expected: "Candidate scored 0.85 for Senior Backend Engineer.",
		},
		{
			name:     "integer value",
			template: "You have {{count}} pending screenings.",
			data: map[string]interface{}{
				"count": 7,
			},
			expected: "You have 7 pending screenings.",
		},
		{
			name:     "no replacements",
			template: "Static message without placeholders.",
			data:     map[string]interface{}{},
			expected: "Static message without placeholders.",
		},
		{
			name:     "missing placeholder",
			template: "Hello {{candidateName}}, your {{missing}} is here.",
			data: map[string]interface{}{
				"candidateName": "John Doe",
			},
			expected: "Hello John Doe, your  is here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderTemplate(tt.template, tt.data)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoadTemplates_Defaults(t *testing.T) {
	templates, err := loadTemplates("")

	assert.NoError(t, err)
	assert.NotNil(t, templates)

	completed, exists := templates[TypeScreeningCompleted]
	assert.True(t, exists)
	assert.Contains(t, completed["subject"], "Screening Complete")
	assert.Contains(t, completed["body"], "{{matchScore}}")

	alert, exists := templates[TypeHighMatchAlert]
	assert.True(t, exists)
	assert.Contains(t, alert["subject"], "High Match Alert")
}

func TestLoadTemplates_FromRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notification-templates.json")
	registry := `{
		"interview_invite": {
			"subject": "Interview for {{jobTitle}}",
			"body": "Dear {{candidateName}}, we would like to invite you to interview."
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(registry), 0644))

	templates, err := loadTemplates(path)

	assert.NoError(t, err)
	invite, exists := templates["interview_invite"]
	assert.True(t, exists)
	assert.Equal(t, "Interview for {{jobTitle}}", invite["subject"])

	_, exists = templates[TypeScreeningCompleted]
	assert.False(t, exists, "a registry file replaces the built-in templates")
}

func TestLoadTemplates_InvalidRegistry(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadTemplates(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"oops"`), 0644))

		_, err := loadTemplates(path)
		assert.Error(t, err)
	})

	t.Run("template without body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "incomplete.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"broken_type": {"subject": "No body here"}}`), 0644))

		_, err := loadTemplates(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing a body")
	})
}

// ==========================
// Integration Test
// ==========================

func TestHandler_FullWorkflow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, phone FROM recruiters WHERE id = \$1`).
		WithArgs("recruiter-007").
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).
			AddRow("hiring@talentflow.io", "+15551234567"))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	emailSent := false
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emailSent = true
			assert.Equal(t, "hiring@talentflow.io", params.Destination.ToAddresses[0])
			assert.Equal(t, "screening@talentflow.io", *params.Source)
			assert.Contains(t, *params.Message.Subject.Data, "High Match Alert: Jane Smith")
			assert.Contains(t, *params.Message.Body.Text.Data, "0.92")
			assert.Contains(t, *params.Message.Body.Text.Data, "screening-777")
			return &ses.SendEmailOutput{}, nil
		},
	}

	smsSent := false
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			smsSent = true
			assert.Equal(t, "+15551234567", *params.PhoneNumber)
			assert.Contains(t, *params.Message, "Jane Smith")
			return &sns.PublishOutput{}, nil
		},
	}

	handler := &Handler{
		config:      createTestConfig(),
		db:          db,
		logger:      newTestLogger(t),
		sesClient:   mockSES,
		snsClient:   mockSNS,
		templateMap: defaultTemplates(),
	}

	input := &Input{
		RecipientID:      "recruiter-007",
		RecipientType:    RecipientTypeRecruiter,
		NotificationType: TypeHighMatchAlert,
		ScreeningID:      "screening-777",
		Priority:         "high",
		Metadata: map[string]interface{}{
			"candidateName": "Jane Smith",
			"jobTitle":      "Senior Backend Engineer",
			"matchScore":    0.92,
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)

	assert.True(t, emailSent)
	assert.True(t, smsSent)

	_, err = time.Parse(time.RFC3339, output.SentAt)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_RenderTemplate(b *testing.B) {
	template := "Screening {{screeningId}} for {{candidateName}} against {{jobTitle}} scored {{matchScore}}."
	data := map[string]interface{}{
		"screeningId":   "SCR-001",
		"candidateName": "John Doe",
		"jobTitle":      "Senior Backend Engineer",
		"matchScore":    0.85,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = renderTemplate(template, data)
	}
}
