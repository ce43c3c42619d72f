package bot

import (
	"encoding/json"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/models"
)

// VoiceTransition is the classified outcome of one voice-state change.
// Details carries the new value of the flag that fired, keyed the way the
// journal stores it.
type VoiceTransition struct {
	Action        string
	FromChannelID string
	ToChannelID   string
	Details       map[string]bool
}

// ClassifyVoiceState reduces a before/after voice-state pair to at most one
// action. Priority order, first match wins:
//
//  1. channel join / leave / move
//  2. server mute, server deafen, self deafen, self mute (only when self
//     deafen is unchanged), video, stream
//
// A channel change always shadows simultaneous flag changes. No match means
// no event. A nil before is treated as the empty state (not connected,
// no flags).
func ClassifyVoiceState(before, after *discordgo.VoiceState) (VoiceTransition, bool) {
	if before == nil {
		before = &discordgo.VoiceState{}
	}
	if after == nil {
		after = &discordgo.VoiceState{}
	}

	switch {
	case before.ChannelID == "" && after.ChannelID != "":
		return VoiceTransition{Action: models.VoiceJoin, ToChannelID: after.ChannelID}, true
	case before.ChannelID != "" && after.ChannelID == "":
		return VoiceTransition{Action: models.VoiceLeave, FromChannelID: before.ChannelID}, true
	case before.ChannelID != "" && before.ChannelID != after.ChannelID:
		return VoiceTransition{
			Action:        models.VoiceMove,
			FromChannelID: before.ChannelID,
			ToChannelID:   after.ChannelID,
		}, true
	}

	flag := func(action string, key string, value bool) (VoiceTransition, bool) {
		return VoiceTransition{Action: action, Details: map[string]bool{key: value}}, true
	}

	switch {
	case before.Mute != after.Mute:
		if after.Mute {
			return flag(models.VoiceMute, "mute_status", true)
		}
		return flag(models.VoiceUnmute, "mute_status", false)
	case before.Deaf != after.Deaf:
		if after.Deaf {
			return flag(models.VoiceDeafen, "deafen_status", true)
		}
		return flag(models.VoiceUndeafen, "deafen_status", false)
	case before.SelfDeaf != after.SelfDeaf:
		if after.SelfDeaf {
			return flag(models.VoiceSelfDeafen, "self_deafen_status", true)
		}
		return flag(models.VoiceSelfUndeafen, "self_deafen_status", false)
	case before.SelfMute != after.SelfMute:
		// Toggling deafen also toggles mute; only a pure mute change counts.
		if before.SelfDeaf != after.SelfDeaf {
			return VoiceTransition{}, false
		}
		if after.SelfMute {
			return flag(models.VoiceSelfMute, "self_mute_status", true)
		}
		return flag(models.VoiceSelfUnmute, "self_mute_status", false)
	case before.SelfVideo != after.SelfVideo:
		if after.SelfVideo {
			return flag(models.VideoStart, "video_status", true)
		}
		return flag(models.VideoStop, "video_status", false)
	case before.SelfStream != after.SelfStream:
		if after.SelfStream {
			return flag(models.StreamingStart, "streaming_status", true)
		}
		return flag(models.StreamingStop, "streaming_status", false)
	}

	return VoiceTransition{}, false
}

func (b *Bot) onVoiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.GuildID == "" {
		return
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}

	transition, ok := ClassifyVoiceState(v.BeforeUpdate, v.VoiceState)
	if !ok {
		return
	}
	log := b.logger.WithEvent("voice_state_update")

	var details string
	if len(transition.Details) > 0 {
		raw, err := json.Marshal(transition.Details)
		if err == nil {
			details = string(raw)
		}
	}

	record := &models.VoiceActivity{
		MemberID:      v.UserID,
		Action:        transition.Action,
		FromChannelID: transition.FromChannelID,
		ToChannelID:   transition.ToChannelID,
		Details:       details,
		Timestamp:     b.now(),
	}
	if err := b.store.InsertVoiceActivity(record); err != nil {
		log.Error("insert voice activity failed",
			zap.String("member_id", v.UserID),
			zap.String("action", transition.Action),
			zap.Error(err))
		return
	}

	b.notify(log, categoryVoiceActivity, b.voiceEmbed(v, transition, record.Timestamp))
}
