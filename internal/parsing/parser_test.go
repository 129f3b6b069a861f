// internal/parsing/parser_test.go
package parsing

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/parsing/fields"
	"talentflow-workers/internal/parsing/skills"
	"talentflow-workers/pkg/skillcatalog"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ==========================
// Test Helper Functions
// ==========================

func newTestParser(t *testing.T, recognizer fields.EntityRecognizer) *Parser {
	catalog := skillcatalog.Default()
	return NewParser(
		fields.NewExtractor(recognizer),
		skills.NewExtractor(catalog, nil),
		logger.NewTestLogger(t),
	)
}

func buildDocx(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, line := range lines {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", line)
	}
	document := `<?xml version="1.0"?><w:document><w:body>` + body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := fw.Write([]byte(document)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func testResumeDocx(t *testing.T) []byte {
	return buildDocx(t,
		"Test Resume",
		"Work Experience",
		"Senior Developer at Tech Corp",
		"2020-2023",
		"Education",
		"BS Computer Science",
		"Tech University, 2015-2019",
	)
}

type stubRecognizer struct {
	entities fields.Entities
}

func (s stubRecognizer) Recognize(ctx context.Context, text string) (fields.Entities, error) {
	return s.entities, nil
}

type panicRecognizer struct{}

func (panicRecognizer) Recognize(ctx context.Context, text string) (fields.Entities, error) {
	panic("recognizer exploded")
}

// ==========================
// Core Functionality Tests
// ==========================

func TestParse_ResumeDocument(t *testing.T) {
	parser := newTestParser(t, nil)

	profile := parser.Parse(context.Background(), testResumeDocx(t), docxMime)

	assert.Empty(t, profile.Error)
	assert.Contains(t, profile.RawText, "Senior Developer at Tech Corp")

	assert.Len(t, profile.Experience, 1)
	assert.Equal(t, "Senior Developer", profile.Experience[0].Title)
	assert.Equal(t, "Tech Corp", profile.Experience[0].Company)
	assert.Contains(t, profile.Experience[0].Dates, "2020-2023")

	assert.Len(t, profile.Education, 1)
	assert.Contains(t, profile.Education[0].Degree, "Computer Science")
	assert.Contains(t, profile.Education[0].Institution, "Tech University")
	assert.Contains(t, profile.Education[0].Dates, "2015-2019")

	assert.Equal(t, 7, profile.ExperienceYears) // (2023-2020) + (2019-2015)
	assert.Equal(t, 0.5, profile.Confidence)    // raw text, experience, education
}

func TestParse_SkillsAndContact(t *testing.T) {
	parser := newTestParser(t, nil)
	doc := buildDocx(t,
		"John Doe",
		"john.doe@example.com | +1-555-123-4567",
		"Skills: Python, FastAPI, Docker",
		"Senior Developer at Tech Corp",
		"2020-2023",
	)

	profile := parser.Parse(context.Background(), doc, docxMime)

	assert.Empty(t, profile.Error)
	assert.Equal(t, "john.doe@example.com", profile.PersonalInfo.Email)
	assert.Equal(t, "+1-555-123-4567", profile.PersonalInfo.Phone)
	assert.Equal(t, []string{"Docker", "FastAPI", "Python"}, profile.Skills)
	assert.Equal(t, 0.67, profile.Confidence) // raw text, skills, experience, email
}

func TestParse_ShorthandSkillsResolve(t *testing.T) {
	parser := newTestParser(t, nil)
	doc := buildDocx(t, "Skills: py and js")

	profile := parser.Parse(context.Background(), doc, docxMime)

	assert.Empty(t, profile.Error)
	assert.Equal(t, []string{"JavaScript", "Python"}, profile.Skills)
}

func TestParse_RecognizerRaisesConfidence(t *testing.T) {
	rec := stubRecognizer{entities: fields.Entities{Name: "John Doe"}}
	parser := newTestParser(t, rec)

	profile := parser.Parse(context.Background(), testResumeDocx(t), docxMime)

	assert.Equal(t, "John Doe", profile.PersonalInfo.Name)
	assert.Equal(t, 0.67, profile.Confidence) // raw text, experience, education, name
}

func TestParse_Idempotent(t *testing.T) {
	parser := newTestParser(t, nil)
	doc := testResumeDocx(t)

	first := parser.Parse(context.Background(), doc, docxMime)
	second := parser.Parse(context.Background(), doc, docxMime)

	assert.Equal(t, first, second)
}

// ==========================
// Error Handling Tests
// ==========================

func TestParse_EncryptedDocument(t *testing.T) {
	parser := newTestParser(t, nil)
	data := []byte("%PDF-1.7\n/Encrypt 12 0 R\nrest")

	profile := parser.Parse(context.Background(), data, "application/pdf")

	assert.Contains(t, profile.Error, "encrypted")
	assert.Empty(t, profile.RawText)
	assert.Zero(t, profile.Confidence)
	assert.NotNil(t, profile.Skills)
	assert.Empty(t, profile.Skills)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	parser := newTestParser(t, nil)

	profile := parser.Parse(context.Background(), []byte("data"), "image/png")

	assert.Contains(t, profile.Error, "unsupported")
	assert.Empty(t, profile.RawText)
}

func TestParse_CorruptedDocument(t *testing.T) {
	parser := newTestParser(t, nil)

	profile := parser.Parse(context.Background(), []byte("definitely not a pdf"), "application/pdf")

	assert.Contains(t, profile.Error, "corrupted")
	assert.Empty(t, profile.RawText)
}

func TestParse_PanicBecomesErrorProfile(t *testing.T) {
	parser := newTestParser(t, panicRecognizer{})

	profile := parser.Parse(context.Background(), testResumeDocx(t), docxMime)

	assert.Equal(t, "Unexpected error: recognizer exploded", profile.Error)
	assert.Empty(t, profile.RawText)
	assert.Zero(t, profile.Confidence)
}

func TestParseFile_MissingFile(t *testing.T) {
	parser := newTestParser(t, nil)

	profile := parser.ParseFile(context.Background(), "/nonexistent/resume.pdf", "application/pdf")

	assert.Contains(t, profile.Error, "corrupted")
}

func TestParse_ErrorAndRawTextAreExclusive(t *testing.T) {
	parser := newTestParser(t, nil)

	inputs := []struct {
		name string
		data []byte
		mime string
	}{
		{name: "valid docx", data: testResumeDocx(t), mime: docxMime},
		{name: "encrypted pdf", data: []byte("%PDF-1.7\n/Encrypt 12 0 R"), mime: "application/pdf"},
		{name: "corrupted pdf", data: []byte("garbage"), mime: "application/pdf"},
		{name: "unsupported", data: []byte("data"), mime: "text/plain"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			profile := parser.Parse(context.Background(), tt.data, tt.mime)
			assert.Equal(t, profile.Error == "", profile.RawText != "")
		})
	}
}

// ==========================
// Confidence Scoring Tests
// ==========================

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name     string
		profile  *Profile
		expected float64
	}{
		{
			name:     "nothing recovered",
			profile:  &Profile{},
			expected: 0.0,
		},
		{
			name: "everything recovered",
			profile: &Profile{
				RawText:      "text",
				Skills:       []string{"Python"},
				Experience:   []fields.ExperienceEntry{{Title: "Dev"}},
				Education:    []fields.EducationEntry{{Degree: "BS"}},
				PersonalInfo: fields.PersonalInfo{Name: "John", Email: "j@x.io"},
			},
			expected: 1.0,
		},
		{
			name:     "raw text only", // 1/6
			profile:  &Profile{RawText: "text"},
			expected: 0.17,
		},
		{
			name: "text and skills", // 2/6
			profile: &Profile{
				RawText: "text",
				Skills:  []string{"Python"},
			},
			expected: 0.33,
		},
		{
			name: "missing name only", // 5/6
			profile: &Profile{
				RawText:      "text",
				Skills:       []string{"Python"},
				Experience:   []fields.ExperienceEntry{{Title: "Dev"}},
				Education:    []fields.EducationEntry{{Degree: "BS"}},
				PersonalInfo: fields.PersonalInfo{Email: "j@x.io"},
			},
			expected: 0.83,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, confidenceScore(tt.profile))
		})
	}
}

func TestConfidenceScore_AlwaysInRange(t *testing.T) {
	parser := newTestParser(t, nil)

	profile := parser.Parse(context.Background(), testResumeDocx(t), docxMime)

	assert.GreaterOrEqual(t, profile.Confidence, 0.0)
	assert.LessOrEqual(t, profile.Confidence, 1.0)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkParse_Docx(b *testing.B) {
	catalog := skillcatalog.Default()
	parser := NewParser(
		fields.NewExtractor(nil),
		skills.NewExtractor(catalog, nil),
		logger.NewNoOpLogger(),
	)

	var body bytes.Buffer
	fmt.Fprintf(&body, "<w:p><w:r><w:t>Senior Developer at Tech Corp</w:t></w:r></w:p>")
	fmt.Fprintf(&body, "<w:p><w:r><w:t>2020-2023</w:t></w:r></w:p>")
	document := `<?xml version="1.0"?><w:document><w:body>` + body.String() + `</w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, _ := zw.Create("word/document.xml")
	fw.Write([]byte(document))
	zw.Close()
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		parser.Parse(context.Background(), data, docxMime)
	}
}
