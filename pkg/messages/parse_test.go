package messages

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		want     Message
		wantKind ParseErrorKind
		wantErr  bool
	}{
		{
			name:  "ping",
			frame: `{"type":"PING","id":1,"matchId":77}`,
			want:  &Ping{Envelope: Envelope{Type: TypePing}, ID: 1, MatchID: 77},
		},
		{
			name:  "connect player with numeric id",
			frame: `{"type":"CONNECT_PLAYER","playerId":42,"name":"ana","matchId":9}`,
			want:  &ConnectPlayer{Envelope: Envelope{Type: TypeConnectPlayer}, PlayerID: "42", Name: "ana", MatchID: 9},
		},
		{
			name:  "connect player with string id",
			frame: `{"type":"CONNECT_PLAYER","playerId":"p-1","matchId":9}`,
			want:  &ConnectPlayer{Envelope: Envelope{Type: TypeConnectPlayer}, PlayerID: "p-1", MatchID: 9},
		},
		{
			name:  "lower case bounce alias",
			frame: `{"type":"bounce","id":2,"matchId":5,"axis":"x"}`,
			want:  &Bounce{Envelope: Envelope{Type: TypeBounce}, ID: 2, MatchID: 5, Axis: types.AxisX},
		},
		{
			name:  "camel case end game alias",
			frame: `{"type":"endGame","winner":"ana","matchId":5,"id":1}`,
			want:  &EndGame{Envelope: Envelope{Type: TypeEndGame}, Winner: "ana", MatchID: 5, ID: 1},
		},
		{
			name:  "input",
			frame: `{"type":"INPUT","id":1,"matchId":5,"up":true,"down":false,"inputSeq":12}`,
			want:  &Input{Envelope: Envelope{Type: TypeInput}, ID: 1, MatchID: 5, Up: true, InputSeq: 12},
		},
		{
			name:     "not json",
			frame:    `PING`,
			wantErr:  true,
			wantKind: ParseMalformed,
		},
		{
			name:     "missing type",
			frame:    `{"id":1}`,
			wantErr:  true,
			wantKind: ParseMalformed,
		},
		{
			name:     "unknown type",
			frame:    `{"type":"TELEPORT"}`,
			wantErr:  true,
			wantKind: ParseUnknownType,
		},
		{
			name:     "server only type",
			frame:    `{"type":"STATE"}`,
			wantErr:  true,
			wantKind: ParseUnknownType,
		},
		{
			name:     "missing player id",
			frame:    `{"type":"CONNECT_PLAYER","matchId":9}`,
			wantErr:  true,
			wantKind: ParseInvalid,
		},
		{
			name:     "bad axis",
			frame:    `{"type":"BOUNCE","axis":"z"}`,
			wantErr:  true,
			wantKind: ParseInvalid,
		},
		{
			name:     "bad game type",
			frame:    `{"type":"CREATE_PARTY","playerId":"1","gameType":"CASUAL"}`,
			wantErr:  true,
			wantKind: ParseInvalid,
		},
		{
			name:     "wrong field type",
			frame:    `{"type":"PING","id":"one"}`,
			wantErr:  true,
			wantKind: ParseMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.frame))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.wantKind, parseErr.Kind)
		})
	}
}

func TestParseError_Code(t *testing.T) {
	_, err := Parse([]byte(`{"type":"NOPE"}`))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, ErrorUnknownType, parseErr.Code())

	_, err = Parse([]byte(`{"type":"JOIN_PARTY","playerId":"1"}`))
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, ErrorInvalidData, parseErr.Code())
}

func TestEncode_flatPayload(t *testing.T) {
	b, err := Encode(NewPlayerConnected(2, 1234))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "PLAYER_CONNECTED", got["type"])
	assert.Equal(t, float64(2), got["id"])
	assert.Equal(t, float64(1234), got["matchId"])
	assert.Contains(t, got, "timestamp")
}

func TestEncode_stateSnapshot(t *testing.T) {
	state := NewState(7)
	state.Players[1] = PlayerSnapshot{ID: "a", Name: "ana", Connected: true}
	state.Game = GameSnapshot{Started: true, Time: "01:05"}

	b, err := Encode(state)
	require.NoError(t, err)

	var got struct {
		Type    string                    `json:"type"`
		Players map[string]PlayerSnapshot `json:"players"`
		Ball    BallSnapshot              `json:"ball"`
		Game    GameSnapshot              `json:"game"`
		PowerUp *PowerUpSnapshot          `json:"powerUp"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "STATE", got.Type)
	assert.Equal(t, "ana", got.Players["1"].Name)
	assert.False(t, got.Ball.Exists)
	assert.Nil(t, got.Ball.Position)
	assert.Equal(t, "01:05", got.Game.Time)
	assert.Nil(t, got.PowerUp)
}

func TestClientTypes(t *testing.T) {
	assert.ElementsMatch(t, []Type{
		TypePing, TypeConnectPlayer, TypeInput, TypeBounce, TypeEndGame,
		TypeCreateParty, TypeJoinParty, TypeLeaveParty, TypeEnqueue, TypeDequeue,
	}, ClientTypes())
}
