package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRecommendations(t *testing.T) {
	text := `Kyoto has wonderful food. Try these.
RECOMMENDATIONS: [
  {"name": "Nishiki Market", "category": "experience", "lat": 35.005, "lng": 135.765},
  {"name": "Ippudo", "category": "restaurant"},
  {"name": "", "category": "restaurant"},
  {"name": "Mystery Spot"}
]`

	prose, recs := extractRecommendations(text, 35.0116, 135.7681)

	assert.Equal(t, "Kyoto has wonderful food. Try these.", prose)
	require.Len(t, recs, 3)

	assert.Equal(t, "Nishiki Market", recs[0].Name)
	assert.Equal(t, 35.005, recs[0].Lat)

	// Missing coordinates inherit the destination point.
	assert.Equal(t, "Ippudo", recs[1].Name)
	assert.Equal(t, 35.0116, recs[1].Lat)
	assert.Equal(t, 135.7681, recs[1].Lng)

	// Missing category defaults to experience.
	assert.Equal(t, "experience", recs[2].Category)

	for i, r := range recs {
		assert.True(t, strings.HasPrefix(r.ID, "ai-"), "rec %d id %q", i, r.ID)
		assert.Equal(t, "ai", r.Source)
	}
}

func TestExtractRecommendations_NoBlock(t *testing.T) {
	prose, recs := extractRecommendations("Just prose, no structured block.", 0, 0)
	assert.Equal(t, "Just prose, no structured block.", prose)
	assert.Nil(t, recs)
}

func TestExtractRecommendations_MalformedBlockKeepsProse(t *testing.T) {
	prose, recs := extractRecommendations("Here you go.\nRECOMMENDATIONS: [not json", 0, 0)
	assert.Equal(t, "Here you go.", prose)
	assert.Empty(t, recs)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nishiki Market", "nishiki-market"},
		{"Café del Mar!", "caf-del-mar"},
		{"  spaces  ", "spaces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "in=%q", tt.in)
	}
}

func TestFallbackChatReply_DetectsRestaurantIntent(t *testing.T) {
	msgs := []ChatMessage{
		{Role: "assistant", Content: "How can I help?"},
		{Role: "user", Content: "Where should we eat tonight?"},
	}

	reply := FallbackChatReply(msgs, "Kyoto", 35.0116, 135.7681)
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "restaurant")
	require.NotEmpty(t, reply.Recommendations)
	for _, r := range reply.Recommendations {
		assert.Equal(t, "restaurant", r.Category)
		assert.Equal(t, "estimated", r.Source)
	}
}

func TestFallbackChatReply_DefaultsToExperiences(t *testing.T) {
	msgs := []ChatMessage{{Role: "user", Content: "What should we see?"}}

	reply := FallbackChatReply(msgs, "", 0, 0)
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "your destination")
	for _, r := range reply.Recommendations {
		assert.Equal(t, "experience", r.Category)
	}
}
