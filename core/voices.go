package core

// Voice is a selectable synthesis voice. The ID is passed opaquely to the
// synthesis service.
type Voice struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Voices is the closed set of voices the synthesizer offers.
var Voices = []Voice{
	{ID: "alloy", Description: "Neutral and balanced"},
	{ID: "echo", Description: "Calm and measured"},
	{ID: "fable", Description: "Warm and expressive"},
	{ID: "nova", Description: "Bright and energetic"},
	{ID: "onyx", Description: "Deep and authoritative"},
}

// DefaultVoice is used when no voice has been selected.
var DefaultVoice = Voices[0]

// VoiceByID looks up a voice by its identifier.
func VoiceByID(id string) (Voice, bool) {
	for _, v := range Voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}
