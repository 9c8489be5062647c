package speech

import "math/rand/v2"

// Voices is the fixed palette of synthesis voices. A voice is chosen once at
// session start and held constant for the session's lifetime.
var Voices = []string{"alloy", "echo", "fable", "nova", "shimmer"}

// RandomVoice picks a voice from the palette.
func RandomVoice() string {
	return Voices[rand.IntN(len(Voices))]
}
