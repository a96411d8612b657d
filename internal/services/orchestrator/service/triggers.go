package service

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	str "ipvault/internal/platform/strings"
	"ipvault/internal/services/orchestrator/domain"
)

const (
	aiTitleRunes = 50
	maxDescRunes = 4096

	// MixFileName names the stored mix document
	MixFileName = "mix.json"
)

// MixTags are attached to every saved mix
var MixTags = []string{"mix", "live", "on-chain"}

// AITitle is "AI Output: " plus the first 50 runes, with an ellipsis only when cut
func AITitle(s string) string {
	s = strings.TrimSpace(s)
	head, cut := str.Head(s, aiTitleRunes)
	if cut {
		return "AI Output: " + head + "..."
	}
	return "AI Output: " + head
}

// MixTitle names a mix by its save time
func MixTitle(at time.Time) string {
	return "Live Mix Session: " + at.UTC().Format(time.RFC3339)
}

// MixDocument is the canonical stored form of a mix, field order is fixed by the struct
func MixDocument(layers []domain.MixLayer) ([]byte, error) {
	b, err := json.Marshal(struct {
		Layers []domain.MixLayer `json:"layers"`
	}{Layers: layers})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode mix")
	}
	return b, nil
}

// fileMetadata applies the upload form defaults
func fileMetadata(in domain.FileRequest) ipasset.Metadata {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(in.Artifact.Name)
		if title != "" {
			title = filepath.Base(title)
		}
	}
	typ := in.Type
	if strings.TrimSpace(string(typ)) == "" {
		typ = ipasset.TypeArt
	}
	tags := in.Tags
	if len(tags) == 0 {
		tags = ipasset.SplitTags(in.TagsCSV)
	}
	return ipasset.Metadata{
		Title:       title,
		Description: in.Description,
		Type:        typ,
		Tags:        tags,
		License:     in.License,
	}
}

// aiInput turns generated text into an artifact and its metadata
func aiInput(in domain.AIOutputRequest) (artifact.Artifact, ipasset.Metadata, error) {
	if strings.TrimSpace(in.Text) == "" {
		return artifact.Artifact{}, ipasset.Metadata{}, perr.WithField(perr.Validationf("text is required"), "text")
	}
	if err := ipasset.Check(in); err != nil {
		return artifact.Artifact{}, ipasset.Metadata{}, err
	}
	name := in.Prompt
	if strings.TrimSpace(name) == "" {
		name = in.Text
	}
	desc := str.Clip(strings.TrimSpace(in.Text), maxDescRunes)
	meta := ipasset.Metadata{
		Title:       AITitle(name),
		Description: desc,
		Type:        ipasset.TypeAIOutput,
		Tags:        in.Tags,
		License:     in.License,
	}
	// the fingerprint covers the exact text as generated
	return artifact.FromText("ai-output.txt", in.Text), meta, nil
}

// mixInput encodes the layers and names the session
func mixInput(in domain.MixRequest, at time.Time) (artifact.Artifact, ipasset.Metadata, error) {
	if len(in.Layers) == 0 {
		return artifact.Artifact{}, ipasset.Metadata{}, perr.WithField(perr.Validationf("a mix needs at least one layer"), "layers")
	}
	if err := ipasset.Check(in); err != nil {
		return artifact.Artifact{}, ipasset.Metadata{}, err
	}
	doc, err := MixDocument(in.Layers)
	if err != nil {
		return artifact.Artifact{}, ipasset.Metadata{}, err
	}
	meta := ipasset.Metadata{
		Title:       MixTitle(at),
		Description: fmt.Sprintf("Mix with %d layers", len(in.Layers)),
		Type:        ipasset.TypeMusic,
		Tags:        append([]string(nil), MixTags...),
		License:     in.License,
	}
	return artifact.FromBytes(MixFileName, "application/json", doc), meta, nil
}
