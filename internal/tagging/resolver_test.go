// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tagging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// fakeTextSource returns canned document text or an error.
type fakeTextSource struct {
	text string
	err  error
}

func (f *fakeTextSource) Text(path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func filenameResolver() *Resolver {
	return NewResolver(types.TaggingConfig{
		Mode:                types.MethodFilename,
		ConfidenceThreshold: 0.8,
	}, nil, nil)
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		wantTag  string
	}{
		{"AHU-1 - Technical Data Sheet.docx", "AHU-1"},
		{"AHU_1_Fan_Curve.jpg", "AHU-1"},
		{"MAU-12 - Item Summary.doc", "MAU-12"},
		{"AHU-D4 Drawing.pdf", "AHU-D4"},
		{"WSHP-3 - Specifications.docx", "WSHP-3"},
		{"ahu-07 data sheet.pdf", "AHU-7"},
		// Unknown prefix still matches the generic pattern.
		{"BOILER-2 Data.pdf", "BOILER-2"},
		// No tag shape at all.
		{"Random Document.pdf", ""},
	}

	r := filenameResolver()
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := r.FromFilename(tt.filename)
			assert.Equal(t, tt.wantTag, got.Tag)
			if tt.wantTag != "" {
				assert.Equal(t, types.MethodFilename, got.Method)
				assert.Greater(t, got.Confidence, 0.0)
			}
		})
	}
}

// A filename matching both a specific long prefix and a shorter generic
// one resolves to the specific prefix: OAHU wins over AHU, BCU over BC.
func TestFromFilenamePrefixPrecedence(t *testing.T) {
	r := filenameResolver()

	got := r.FromFilename("OAHU-3 - Technical Data Sheet.docx")
	assert.Equal(t, "OAHU-3", got.Tag)

	got = r.FromFilename("BCU-7 Drawing.pdf")
	assert.Equal(t, "BCU-7", got.Tag)
}

// Cut sheets never receive a tag, even when a pattern would match the
// rest of the name.
func TestCutSheetsStayUntagged(t *testing.T) {
	r := filenameResolver()

	for _, name := range []string{
		"CS_Air_Handler_Light_Kit.pdf",
		"CS_AHU-1_Accessory.pdf",
		"Widget Cut Sheet.pdf",
	} {
		got := r.Resolve(types.RawFile{Path: name, Name: name})
		assert.False(t, got.Tagged(), "expected no tag for %s, got %s", name, got.Tag)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AHU-1", "AHU-1"},
		{"ahu_01", "AHU-1"},
		{"MAU 05", "MAU-5"},
		{"AHU01", "AHU-1"},
		{"AHU-D4", "AHU-D4"},
		{"RTU-010", "RTU-10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestResolveContentMode(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantTag        string
		wantConfidence float64
	}{
		{
			name:           "labelled unit tag field wins",
			text:           "Manufacturer: Daikin\nUnit Tag: AHU-12\nAirflow: 5000 CFM",
			wantTag:        "AHU-12",
			wantConfidence: 0.95,
		},
		{
			name:           "plain tag label",
			text:           "Tag: MAU-3\nModel: MPS-050",
			wantTag:        "MAU-3",
			wantConfidence: 0.9,
		},
		{
			name:           "bare token match carries low trust",
			text:           "Performance summary for FCU-7 follows.",
			wantTag:        "FCU-7",
			wantConfidence: 0.6,
		},
		{
			name:    "no tag in body",
			text:    "General terms and conditions.",
			wantTag: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(types.TaggingConfig{
				Mode:                types.MethodContent,
				ConfidenceThreshold: 0.8,
			}, &fakeTextSource{text: tt.text}, nil)

			got := r.Resolve(types.RawFile{Path: "Unnamed Attachment.docx", Name: "Unnamed Attachment.docx"})
			assert.Equal(t, tt.wantTag, got.Tag)
			if tt.wantTag != "" {
				assert.Equal(t, tt.wantConfidence, got.Confidence)
				assert.Equal(t, types.MethodContent, got.Method)
			}
		})
	}
}

// An unreadable file degrades to a zero-confidence result carrying the
// read error as evidence; it never aborts the batch.
func TestResolveUnreadableFile(t *testing.T) {
	r := NewResolver(types.TaggingConfig{
		Mode: types.MethodContent,
	}, &fakeTextSource{err: errors.New("file is encrypted")}, nil)

	got := r.Resolve(types.RawFile{Path: "locked.pdf", Name: "locked.pdf"})
	assert.False(t, got.Tagged())
	assert.Zero(t, got.Confidence)
	assert.Equal(t, types.MethodContent, got.Method)
	assert.Contains(t, got.Evidence, "encrypted")
}

// Content mode falls back to the filename when the body has no tag, and
// records which method lost.
func TestResolveFallback(t *testing.T) {
	r := NewResolver(types.TaggingConfig{
		Mode:           types.MethodContent,
		EnableFallback: true,
	}, &fakeTextSource{text: "boilerplate text"}, nil)

	got := r.Resolve(types.RawFile{Path: "AHU-4 - Drawing.pdf", Name: "AHU-4 - Drawing.pdf"})
	assert.Equal(t, "AHU-4", got.Tag)
	assert.Equal(t, types.MethodFilename, got.Method)
	assert.Equal(t, types.MethodContent, got.FallbackUsed)
}

func TestAccepted(t *testing.T) {
	tag := types.ExtractedTag{Tag: "AHU-1", Confidence: 0.7}
	assert.False(t, tag.Accepted(0.8))
	assert.True(t, tag.Accepted(0.6))
	assert.False(t, types.ExtractedTag{}.Accepted(0))
}
