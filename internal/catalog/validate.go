package catalog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"curriculum/internal/curriculum"
)

func validateTrack(track *curriculum.Track) error {
	return validation.ValidateStruct(track,
		validation.Field(&track.ID, validation.Required),
		validation.Field(&track.Title, validation.Required),
		validation.Field(&track.DefaultReward, validation.Min(0)),
		validation.Field(&track.DefaultLanguages, validation.Each(validation.Required)),
	)
}

func validateMission(mission *curriculum.Mission) error {
	return validation.ValidateStruct(mission,
		validation.Field(&mission.Track, validation.Required),
		validation.Field(&mission.ID, validation.Required, validation.By(missionIDRule(mission.Track))),
		validation.Field(&mission.Title, validation.Required),
		validation.Field(&mission.SolveReward, validation.Min(0)),
		validation.Field(&mission.Languages, validation.Each(validation.Required)),
		validation.Field(&mission.Parents, validation.Each(validation.Required, validation.By(missionIDRule(mission.Track)))),
		validation.Field(&mission.Stars, validation.Each(validation.By(validateStar))),
	)
}

// missionIDRule requires an ID of the form <trackID>:<slug>.
func missionIDRule(trackID string) validation.RuleFunc {
	prefix := trackID + curriculum.IDSeparator
	return func(value interface{}) error {
		id, _ := value.(string)
		if id == "" {
			return nil
		}
		if !strings.HasPrefix(id, prefix) || len(id) == len(prefix) {
			return errors.New("must be prefixed by the track id")
		}
		return nil
	}
}

func validateStar(value interface{}) error {
	star, ok := value.(curriculum.Star)
	if !ok {
		return errors.New("must be a star")
	}
	return validation.ValidateStruct(&star,
		validation.Field(&star.Kind, validation.Required, validation.In(curriculum.StarTime, curriculum.StarSize)),
		validation.Field(&star.Goal, validation.Required, validation.Min(1)),
		validation.Field(&star.Weight, validation.Min(0)),
	)
}
