package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

func TestSelector_IsJunk(t *testing.T) {
	s := NewSelector(100, 3000, 1500, 200)
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"too short", "Page 12", true},
		{"digits only", strings.Repeat("7", 120), true},
		{"symbols", strings.Repeat("-=-=|| ", 30), true},
		{"copyright line", "Copyright 2024 Dar es Salaam Institute of Technology. All rights reserved. No part of this booklet may be copied.", true},
		{"content", filler(3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsJunk(tt.text))
		})
	}
}

func TestSelector_SplitsOversizeChunks(t *testing.T) {
	s := NewSelector(100, 3000, 1500, 200)
	big := domain.Chunk{ID: "doc_section_3", Text: filler(80)}
	require.Greater(t, runeLen(big.Text), 3000)

	kept := s.Select([]domain.Chunk{big})
	require.Greater(t, len(kept), 2)
	for k, c := range kept {
		assert.Equal(t, fmt.Sprintf("doc_section_3_split_%d", k), c.ID)
		assert.LessOrEqual(t, runeLen(c.Text), 3000)
	}
}

func TestSelector_SplitKeepsShortTail(t *testing.T) {
	s := NewSelector(100, 3000, 1500, 200)
	text := strings.Repeat("Students attend practical lectures in the modern workshop hall every week. ", 40) +
		"Tail fact: scholarships close in June."
	require.Greater(t, runeLen(text), 3000)

	kept := s.Select([]domain.Chunk{{ID: "doc_section_1", Text: text}})
	require.Len(t, kept, 2)

	var joined []string
	for _, c := range kept {
		assert.GreaterOrEqual(t, runeLen(c.Text), 100)
		assert.LessOrEqual(t, runeLen(c.Text), 3000)
		joined = append(joined, c.Text)
	}
	assert.True(t, strings.HasSuffix(kept[1].Text, "Tail fact: scholarships close in June."))
	assert.Equal(t, alnum(text), alnum(strings.Join(joined, " ")))
}

func TestSelector_CapsByIntrinsicScore(t *testing.T) {
	s := NewSelector(100, 3000, 1500, 200)
	var chunks []domain.Chunk
	for i := 0; i < 250; i++ {
		text := fmt.Sprintf("General note %03d on campus life and student clubs that meet weekly in the main hall near the library building.", i)
		if i%5 == 0 {
			text = fmt.Sprintf("Bachelor of Engineering %03d tuition fee details for the programme are published each semester by the finance office.", i)
		}
		chunks = append(chunks, domain.Chunk{ID: fmt.Sprintf("c%03d", i), Text: text})
	}

	kept := s.Select(chunks)
	require.Len(t, kept, 200)

	keptIDs := make(map[string]bool, len(kept))
	minKept := IntrinsicScore(kept[0].Text)
	for i, c := range kept {
		keptIDs[c.ID] = true
		if sc := IntrinsicScore(c.Text); sc < minKept {
			minKept = sc
		}
		if i > 0 {
			assert.Less(t, kept[i-1].ID, c.ID, "document order preserved")
		}
	}
	for _, c := range chunks {
		if !keptIDs[c.ID] {
			assert.LessOrEqual(t, IntrinsicScore(c.Text), minKept)
		}
	}
	for i := 0; i < 250; i += 5 {
		assert.True(t, keptIDs[fmt.Sprintf("c%03d", i)])
	}
}

func TestDetectTag(t *testing.T) {
	assert.Equal(t, domain.TagPrograms, DetectTag("Degree programs in engineering and their fees"))
	assert.Equal(t, domain.TagFees, DetectTag("Tuition per year"))
	assert.Equal(t, domain.TagAdmissions, DetectTag("Entry requirements"))
	assert.Equal(t, domain.TagContact, DetectTag("Email the registrar"))
	assert.Equal(t, domain.TagAbout, DetectTag("About the institution"))
	assert.Equal(t, domain.TagGeneral, DetectTag("Library opening hours"))
}

func TestIntrinsicScore(t *testing.T) {
	short := "Bachelor program fee admission contact"
	assert.Equal(t, 10.0+8+7+7+6-5, IntrinsicScore(short))
	assert.Equal(t, 3.0+2, IntrinsicScore(strings.Repeat("z", 2100)))
}
