// Package domain holds orchestrator requests and outcomes
package domain

import (
	"context"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/ipasset"
)

// Trigger names the user action that started a registration
type Trigger string

const (
	TriggerFile     Trigger = "file"
	TriggerAIOutput Trigger = "ai-output"
	TriggerMix      Trigger = "mix"
)

// State is the terminal state of one attempt
type State string

const (
	StateRegistered State = "registered"
	StateFailed     State = "failed"
	// StateSaved means stored but intentionally not registered
	StateSaved State = "saved"
)

// FileRequest registers an uploaded file
type FileRequest struct {
	Artifact    artifact.Artifact
	Title       string
	Description string
	Type        ipasset.AssetType
	// Tags wins over TagsCSV when both are set
	Tags       []string
	TagsCSV    string
	License    string
	SkipUpload bool
}

// AIOutputRequest registers generated text
type AIOutputRequest struct {
	Text string `json:"text" validate:"required,max=1048576" example:"a poem about ledgers"`
	// Prompt names the output when set, the text does otherwise
	Prompt     string   `json:"prompt,omitempty" validate:"max=65536" example:"write a poem"`
	Tags       []string `json:"tags,omitempty" validate:"max=32"`
	License    string   `json:"license,omitempty" validate:"max=128"`
	SkipUpload bool     `json:"skip_upload,omitempty"`
}

// Effects are per layer effect sends in percent
type Effects struct {
	Reverb     float64 `json:"reverb" validate:"gte=0,lte=100"`
	Delay      float64 `json:"delay" validate:"gte=0,lte=100"`
	Distortion float64 `json:"distortion" validate:"gte=0,lte=100"`
}

// MixLayer is one track of a saved mix
type MixLayer struct {
	Name    string  `json:"name" validate:"required,max=128" example:"Bass"`
	Volume  float64 `json:"volume" validate:"gte=0,lte=100" example:"75"`
	Pan     float64 `json:"pan" validate:"gte=-100,lte=100" example:"-10"`
	Effects Effects `json:"effects"`
	Muted   bool    `json:"muted"`
}

// MixRequest saves and optionally registers a mix session
type MixRequest struct {
	Layers []MixLayer `json:"layers" validate:"required,min=1,max=64,dive"`
	// Register defaults to true when omitted
	Register *bool `json:"register,omitempty"`
	License  string `json:"license,omitempty" validate:"max=128"`
}

// OutcomeError is the wire form of a failed attempt
type OutcomeError struct {
	Code    string `json:"code" example:"user_rejected"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Outcome is the single result of a trigger
type Outcome struct {
	ItemID       string                    `json:"item_id"`
	Trigger      Trigger                   `json:"trigger"`
	State        State                     `json:"state"`
	Asset        *ipasset.RegisteredAsset  `json:"asset,omitempty"`
	Storage      ipasset.StorageDescriptor `json:"storage"`
	Error        *OutcomeError             `json:"error,omitempty"`
	Deduplicated bool                      `json:"deduplicated,omitempty"`
}

// Failed reports whether the attempt ended in error
func (o Outcome) Failed() bool { return o.State == StateFailed }

// ServicePort is the orchestrator surface
type ServicePort interface {
	RegisterFile(ctx context.Context, in FileRequest) (Outcome, error)
	RegisterAIOutput(ctx context.Context, in AIOutputRequest) (Outcome, error)
	SaveMixSession(ctx context.Context, in MixRequest) (Outcome, error)

	// InFlight lists owner|hash keys currently being registered here
	InFlight() []string
}
