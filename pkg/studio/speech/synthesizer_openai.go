package speech

import (
	"context"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

type OpenAiSynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

var _ Synthesizer = (*OpenAiSynthesizer)(nil)

func NewOpenAiSynthesizer(client *openai.Client, model, voice string) *OpenAiSynthesizer {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceNova)
	}

	return &OpenAiSynthesizer{
		client: client,
		model:  openai.SpeechModel(model),
		voice:  openai.SpeechVoice(voice),
	}
}

func (s *OpenAiSynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("nothing to narrate")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, errs.FromOpenAi(err)
	}

	return resp, nil
}
