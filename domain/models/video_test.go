package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesTerm(t *testing.T) {
	record := &VideoRecord{
		Title:       "Sunset Over Lake",
		Description: "An evening timelapse",
	}

	tests := []struct {
		term string
		want bool
	}{
		{"sunset", true},
		{"SUNSET", true},
		{"over lake", true},
		{"evening", true},
		{"timelapse", true},
		{"sun", true},
		{"mountain", false},
		{"sunset lake", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, record.MatchesTerm(tt.term), "term %q", tt.term)
	}
}

func TestIsEnriched(t *testing.T) {
	record := &VideoRecord{}
	assert.False(t, record.IsEnriched())

	record.ModerationStatus = ModerationApproved
	assert.True(t, record.IsEnriched())
}

func TestIsReady(t *testing.T) {
	assert.True(t, (&VideoRecord{Status: VideoStatusReady}).IsReady())
	assert.False(t, (&VideoRecord{Status: VideoStatusProcessing}).IsReady())
}
