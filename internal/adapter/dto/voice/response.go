package voice

// TurnResponse is the single response of a voice turn
type TurnResponse struct {
	VoiceResponse string `json:"voiceResponse"`
}
