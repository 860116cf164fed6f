package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	names := Names(Default(NewClient()))

	assert.Equal(t, []string{
		"lexica",
		"civitai",
		"reddit/StableDiffusion",
		"reddit/midjourney",
		"reddit/dalle2",
		"reddit/aiArt",
		"prompthero",
		"openart",
		"ghauseditz",
	}, names)
}

func TestSelect(t *testing.T) {
	all := Default(NewClient())

	t.Run("no names selects all", func(t *testing.T) {
		got, err := Select(all)
		require.NoError(t, err)
		assert.Len(t, got, len(all))
	})

	t.Run("exact names keep registration order", func(t *testing.T) {
		got, err := Select(all, "openart", "lexica")
		require.NoError(t, err)
		assert.Equal(t, []string{"lexica", "openart"}, Names(got))
	})

	t.Run("family prefix", func(t *testing.T) {
		got, err := Select(all, "reddit")
		require.NoError(t, err)
		assert.Len(t, got, len(DefaultSubreddits))
	})

	t.Run("single subreddit", func(t *testing.T) {
		got, err := Select(all, "reddit/dalle2")
		require.NoError(t, err)
		assert.Equal(t, []string{"reddit/dalle2"}, Names(got))
	})

	t.Run("unknown name", func(t *testing.T) {
		got, err := Select(all, "lexica", "deviantart")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrUnknownSource)
	})

	t.Run("prefix must end at a slash", func(t *testing.T) {
		_, err := Select(all, "red")
		assert.ErrorIs(t, err, ErrUnknownSource)
	})
}
