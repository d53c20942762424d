package app

import (
	"github.com/yourusername/ripbox-go/internal/domain"
)

// videoFormatSelector asks for best video plus best audio, merged by ffmpeg
const videoFormatSelector = "bv*+ba/b"

// audioFormatSelector asks for best audio only
const audioFormatSelector = "bestaudio/best"

// outputTemplate names files by title and ID; the export extension is
// appended per format so different exports of the same URL never collide
const outputTemplate = "%(title)s [%(id)s]"

// OptionsBuilder derives attempt configurations. The derivation is a pure
// function of (request, credential mode) on top of the static engine
// configuration, so rebuilding for a locked mode reproduces the locked
// template exactly.
type OptionsBuilder struct {
	cfg        domain.DownloadConfig
	cookieFile string
}

// NewOptionsBuilder creates a builder over the engine configuration.
// cookieFile is the resolved static cookie file path used for the
// CredentialCookieFile mode.
func NewOptionsBuilder(cfg domain.DownloadConfig, cookieFile string) *OptionsBuilder {
	return &OptionsBuilder{cfg: cfg, cookieFile: cookieFile}
}

// Build materializes the full option set for one engine invocation
func (b *OptionsBuilder) Build(req domain.DownloadRequest, mode domain.CredentialMode) domain.AttemptConfiguration {
	ac := domain.AttemptConfiguration{
		OutputDir:      req.OutputDir,
		OutputTemplate: outputTemplate + "." + string(req.Format),
		Credential:     mode,

		Retries:             b.cfg.Retries,
		FragmentRetries:     b.cfg.FragmentRetries,
		ConcurrentFragments: b.cfg.ConcurrentFragments,
		RestrictFilenames:   b.cfg.RestrictFilenames,
		TrimFileName:        b.cfg.TrimFileName,
		UserAgent:           b.cfg.UserAgent,
		PlayerClients:       b.cfg.PlayerClients,
		POToken:             b.cfg.POToken,
	}

	if req.Format.IsAudio() {
		ac.FormatSelector = audioFormatSelector
		ac.ExtractAudio = true
		ac.AudioCodec = string(req.Format)
		ac.AudioQuality = "0" // best VBR
	} else {
		ac.FormatSelector = videoFormatSelector
		ac.MergeFormat = string(req.Format)
	}

	if mode.Kind == domain.CredentialCookieFile {
		ac.CookieFile = b.cookieFile
	}

	return ac
}
