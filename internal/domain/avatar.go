package domain

// Avatar is a spiritual companion persona. Welcome is the first
// message of every new conversation; Placeholder seeds the input hint.
type Avatar struct {
	Key         string
	Name        string
	Welcome     string
	Placeholder string
}

// DefaultAvatarKey is used when the profile names an unknown avatar.
const DefaultAvatarKey = "Pio"

var avatars = []Avatar{
	{
		Key:         "Pio",
		Name:        "St. Padre Pio",
		Welcome:     "Welcome. You are not alone in what you carry today. God already sees the depths of your heart. If the words feel far away, that's okay - just share what's on your heart.",
		Placeholder: "Bring your intention to the Lord",
	},
	{
		Key:         "Thérèse",
		Name:        "St. Teresa of Avila",
		Welcome:     "Peace to your heart. Even a few honest words can be a beautiful prayer. Simply write what you are feeling - a sorrow, a hope, or something you are thankful for.",
		Placeholder: "Share your heart with Jesus",
	},
	{
		Key:         "Dan",
		Name:        "Dan",
		Welcome:     "Welcome. It's good that you're here. If something's weighing on you, or even just stirring inside - take a moment to write it down.",
		Placeholder: "Whatever's on your mind, place it here in prayer.",
	},
	{
		Key:         "Kim",
		Name:        "Kim",
		Welcome:     "Hi, and welcome! Don't worry if you don't know how to pray or what to say. Just write what's on your heart - a need, a joy, a question.",
		Placeholder: "What's on your heart right now? - let it out.",
	},
}

// AvatarByKey returns the avatar for the given key, falling back to
// the default persona when the key is unknown or empty.
func AvatarByKey(key string) Avatar {
	for _, a := range avatars {
		if a.Key == key {
			return a
		}
	}
	return AvatarByKey(DefaultAvatarKey)
}

// Avatars lists the fixed persona catalog.
func Avatars() []Avatar {
	out := make([]Avatar, len(avatars))
	copy(out, avatars)
	return out
}
