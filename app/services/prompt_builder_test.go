package services

import (
	"strings"
	"testing"

	"github.com/ozvena/ozvena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompts(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := BuildPrompts("Launch", "Try our new app", models.PlatformTwitter, "Developers", "Backend engineers", 5)
		b := BuildPrompts("Launch", "Try our new app", models.PlatformTwitter, "Developers", "Backend engineers", 5)
		assert.Equal(t, a, b)
	})

	t.Run("PersonaCountEmbedded", func(t *testing.T) {
		prompts := BuildPrompts("Launch", "Try our new app", models.PlatformTwitter, "Developers", "Backend engineers", 12)
		assert.Contains(t, prompts.System, "Generate exactly 12 unique personas")
		// The user prompt repeats the count to anchor the model
		assert.Equal(t, 2, strings.Count(prompts.User, "12"))
	})

	t.Run("PlatformDisplayNameAndStyle", func(t *testing.T) {
		cases := []struct {
			platform    models.SocialPlatform
			displayName string
			styleBit    string
		}{
			{models.PlatformTwitter, "Twitter/X", "under 280 characters"},
			{models.PlatformFacebook, "Facebook", "personal anecdotes welcome"},
			{models.PlatformInstagram, "Instagram", "Visual-focused reactions"},
			{models.PlatformLinkedIn, "LinkedIn", "Professional tone"},
			{models.PlatformTikTok, "TikTok", "Gen-Z style"},
		}

		for _, tc := range cases {
			prompts := BuildPrompts("Launch", "Content", tc.platform, "Group", "Desc", 5)
			assert.Contains(t, prompts.System, tc.displayName)
			assert.Contains(t, prompts.System, tc.styleBit)
			assert.Contains(t, prompts.User, tc.displayName)
		}
	})

	t.Run("UnknownPlatformGetsNoStyleHint", func(t *testing.T) {
		prompts := BuildPrompts("Launch", "Content", models.SocialPlatform("mastodon"), "Group", "Desc", 5)
		// The platform name passes through verbatim and the style section
		// carries no directive line
		assert.Contains(t, prompts.System, "Adapt comment style to mastodon:")
		assert.NotContains(t, prompts.System, "under 280 characters")
		assert.NotContains(t, prompts.System, "Professional tone")
	})

	t.Run("OutputContractPresent", func(t *testing.T) {
		prompts := BuildPrompts("Launch", "Content", models.PlatformLinkedIn, "Group", "Desc", 5)
		require.Contains(t, prompts.System, "OUTPUT FORMAT (strict JSON)")
		assert.Contains(t, prompts.System, `"persona_name"`)
		assert.Contains(t, prompts.System, `"sentiment": "positive|negative|neutral"`)
		assert.Contains(t, prompts.System, "relevance_score (0.0-1.0)")
		assert.Contains(t, prompts.System, "toxicity_score (0.0-1.0)")
		assert.Contains(t, prompts.System, "first-person (I/my/me)")
	})

	t.Run("CampaignAndTargetGroupEmbedded", func(t *testing.T) {
		prompts := BuildPrompts("Summer Sale", "Huge discounts this week", models.PlatformFacebook, "Bargain hunters", "People who love deals", 5)
		assert.Contains(t, prompts.User, "CAMPAIGN NAME: Summer Sale")
		assert.Contains(t, prompts.User, "Huge discounts this week")
		assert.Contains(t, prompts.User, "TARGET GROUP: Bargain hunters")
		assert.Contains(t, prompts.User, "DESCRIPTION: People who love deals")
	})
}
