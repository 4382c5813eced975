package main

import (
	"encoding/binary"
	"math"
)

// ClientMessage represents incoming messages from clients
type ClientMessage struct {
	Type  string  `json:"type"`
	Name  string  `json:"name,omitempty"`
	DirX  float64 `json:"dirX,omitempty"`
	DirY  float64 `json:"dirY,omitempty"`
	DirZ  float64 `json:"dirZ,omitempty"`
	Boost bool    `json:"boost,omitempty"`
	Seq   uint32  `json:"seq,omitempty"`
}

// ServerMessage represents outgoing messages to clients
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WelcomePayload is sent after a player joins
type WelcomePayload struct {
	ID      string  `json:"id"`
	ExtentX float64 `json:"extentX"`
	ExtentY float64 `json:"extentY"`
	ExtentZ float64 `json:"extentZ"`
	Level   int     `json:"level"`
}

// GameStatePayload contains one broadcast snapshot
type GameStatePayload struct {
	You            PlayerState     `json:"you"`
	Stars          []StarState     `json:"stars"`
	Gate           GateState       `json:"gate"`
	Particles      []ParticleState `json:"particles"`
	Level          int             `json:"level"`
	StarsCollected int             `json:"starsCollected"`
	LevelStars     int             `json:"levelStars"`
	Score          int             `json:"score"`
}

// PlayerState is the player's own body state
type PlayerState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	VelX float64 `json:"velX"`
	VelY float64 `json:"velY"`
	VelZ float64 `json:"velZ"`
	Seq  uint32  `json:"seq"`
}

// StarState is one visible star
type StarState struct {
	ID uint64  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// GateState is the portal gate
type GateState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Armed bool    `json:"armed"`
}

// ParticleState is one visible particle
type ParticleState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Size  float64 `json:"size"`
	Alpha float64 `json:"alpha"`
	Color RGB     `json:"-"`
}

// StarCollectedPayload announces a pickup
type StarCollectedPayload struct {
	StarID    uint64 `json:"starId"`
	Collected int    `json:"collected"`
	Total     int    `json:"total"`
	GateArmed bool   `json:"gateArmed"`
	Score     int    `json:"score"`
}

// LevelCompletePayload announces a gate transition
type LevelCompletePayload struct {
	Level     int `json:"level"`
	NextLevel int `json:"nextLevel"`
	Score     int `json:"score"`
}

// Binary protocol message types
const (
	MsgTypeWelcome       byte = 1
	MsgTypeState         byte = 2
	MsgTypePong          byte = 3
	MsgTypeStarCollected byte = 4
	MsgTypeLevelComplete byte = 5
)

// EncodeBinaryMessage encodes a server message into binary format.
// Returns nil for message types without a binary form; callers fall back
// to JSON for those.
func EncodeBinaryMessage(msg ServerMessage) []byte {
	switch msg.Type {
	case "welcome":
		return encodeWelcome(msg.Payload.(WelcomePayload))
	case "state":
		return encodeGameState(msg.Payload.(GameStatePayload))
	case "starCollected":
		return encodeStarCollected(msg.Payload.(StarCollectedPayload))
	case "levelComplete":
		return encodeLevelComplete(msg.Payload.(LevelCompletePayload))
	case "pong":
		return []byte{MsgTypePong}
	default:
		return nil
	}
}

func encodeWelcome(payload WelcomePayload) []byte {
	buf := make([]byte, 0, 1+2+len(payload.ID)+24+2)
	buf = append(buf, MsgTypeWelcome)
	buf = appendString(buf, payload.ID)
	buf = appendFloat64(buf, payload.ExtentX)
	buf = appendFloat64(buf, payload.ExtentY)
	buf = appendFloat64(buf, payload.ExtentZ)
	buf = binary.BigEndian.AppendUint16(buf, uint16(payload.Level))
	return buf
}

func encodeGameState(state GameStatePayload) []byte {
	capacity := 1 + 32 + 13 + 13 + len(state.Stars)*20 + len(state.Particles)*23
	buf := make([]byte, 0, capacity)

	buf = append(buf, MsgTypeState)

	// Player body
	buf = appendFloat32(buf, float32(state.You.X))
	buf = appendFloat32(buf, float32(state.You.Y))
	buf = appendFloat32(buf, float32(state.You.Z))
	buf = appendFloat32(buf, float32(state.You.VelX))
	buf = appendFloat32(buf, float32(state.You.VelY))
	buf = appendFloat32(buf, float32(state.You.VelZ))
	buf = binary.BigEndian.AppendUint32(buf, state.You.Seq)

	// Session counters
	buf = binary.BigEndian.AppendUint16(buf, uint16(state.Level))
	buf = binary.BigEndian.AppendUint16(buf, uint16(state.StarsCollected))
	buf = binary.BigEndian.AppendUint16(buf, uint16(state.LevelStars))
	buf = binary.BigEndian.AppendUint32(buf, uint32(state.Score))

	// Gate
	buf = appendFloat32(buf, float32(state.Gate.X))
	buf = appendFloat32(buf, float32(state.Gate.Y))
	buf = appendFloat32(buf, float32(state.Gate.Z))
	buf = appendBool(buf, state.Gate.Armed)

	// Stars
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(state.Stars)))
	for _, star := range state.Stars {
		buf = binary.BigEndian.AppendUint64(buf, star.ID)
		buf = appendFloat32(buf, float32(star.X))
		buf = appendFloat32(buf, float32(star.Y))
		buf = appendFloat32(buf, float32(star.Z))
	}

	// Particles (position, size, alpha, color)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(state.Particles)))
	for _, p := range state.Particles {
		buf = appendFloat32(buf, float32(p.X))
		buf = appendFloat32(buf, float32(p.Y))
		buf = appendFloat32(buf, float32(p.Z))
		buf = appendFloat32(buf, float32(p.Size))
		buf = appendFloat32(buf, float32(p.Alpha))
		buf = append(buf, p.Color.R, p.Color.G, p.Color.B)
	}

	return buf
}

func encodeStarCollected(payload StarCollectedPayload) []byte {
	buf := make([]byte, 0, 1+8+2+2+1+4)
	buf = append(buf, MsgTypeStarCollected)
	buf = binary.BigEndian.AppendUint64(buf, payload.StarID)
	buf = binary.BigEndian.AppendUint16(buf, uint16(payload.Collected))
	buf = binary.BigEndian.AppendUint16(buf, uint16(payload.Total))
	buf = appendBool(buf, payload.GateArmed)
	buf = binary.BigEndian.AppendUint32(buf, uint32(payload.Score))
	return buf
}

func encodeLevelComplete(payload LevelCompletePayload) []byte {
	buf := make([]byte, 0, 1+2+2+4)
	buf = append(buf, MsgTypeLevelComplete)
	buf = binary.BigEndian.AppendUint16(buf, uint16(payload.Level))
	buf = binary.BigEndian.AppendUint16(buf, uint16(payload.NextLevel))
	buf = binary.BigEndian.AppendUint32(buf, uint32(payload.Score))
	return buf
}

// Helper functions

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

func appendFloat32(buf []byte, f float32) []byte {
	return binary.BigEndian.AppendUint32(buf, math.Float32bits(f))
}

func appendFloat64(buf []byte, f float64) []byte {
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}
