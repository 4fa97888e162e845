// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Model type identifiers understood by the answer backend.
const (
	// ModelTypeDefault is the baseline hosted provider used when a profile
	// does not name a model backend.
	ModelTypeDefault = "openai"

	// ModelTypeLocal selects a locally hosted model server. Failures for
	// this backend get distinct user guidance.
	ModelTypeLocal = "local"
)

// TutorProfile is the persona and model configuration for a conversation.
// It is supplied by the profile-selection part of the application and is a
// read-only input to the session engine.
type TutorProfile struct {
	Name         string `json:"name" toml:"name"`
	Field        string `json:"field" toml:"field"`
	TeachingMode string `json:"teachingMode" toml:"teaching_mode"`
	AdviceType   string `json:"adviceType" toml:"advice_type"`
	ModelType    string `json:"modelType" toml:"model_type"`
}

// DefaultProfile returns the generic fallback persona used when no tutor
// has been selected.
func DefaultProfile() TutorProfile {
	return TutorProfile{
		Name:         "AI Educator",
		Field:        "General Knowledge",
		TeachingMode: "Helpful",
		AdviceType:   "educational",
		ModelType:    ModelTypeDefault,
	}
}

// IsZero reports whether the profile is entirely unset.
func (p TutorProfile) IsZero() bool {
	return p.Name == "" && p.Field == "" && p.TeachingMode == "" &&
		p.AdviceType == "" && p.ModelType == ""
}

// EffectiveModelType returns the profile's model type, falling back to the
// baseline provider when unset.
func (p TutorProfile) EffectiveModelType() string {
	if p.ModelType == "" {
		return ModelTypeDefault
	}
	return p.ModelType
}

// IsLocalModel reports whether this profile routes to a locally hosted
// model server.
func (p TutorProfile) IsLocalModel() bool {
	return p.ModelType == ModelTypeLocal
}
