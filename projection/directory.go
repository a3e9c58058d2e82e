package projection

import (
	"math"
	"sort"

	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/models"
)

// RoomDirectory lists the rooms that are Waiting or Started, by room id.
type RoomDirectory map[string]models.Insight

// Apply upserts an active room and drops one that went Idle or Finish.
func (d RoomDirectory) Apply(u message.RoomUpdate) {
	if u.Insight.Status.Active() {
		d[u.RoomID] = u.Insight
		return
	}
	delete(d, u.RoomID)
}

func (d RoomDirectory) Clone() RoomDirectory {
	c := make(RoomDirectory, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// RoomEntry is one room of a directory listing.
type RoomEntry struct {
	RoomID  string         `json:"room_id"`
	Insight models.Insight `json:"insight"`
}

// List returns the directory ordered by room id.
func (d RoomDirectory) List() []RoomEntry {
	out := make([]RoomEntry, 0, len(d))
	for id, in := range d {
		out = append(out, RoomEntry{RoomID: id, Insight: in})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

// PlayerDirectory maps busy player names to their presence.
type PlayerDirectory map[string]models.Presence

func (d PlayerDirectory) Join(j message.PlayerJoin) {
	d[j.Name] = models.Presence{GroupID: j.GroupID, Time: j.Time}
}

// Finish releases both players. Names not present are ignored.
func (d PlayerDirectory) Finish(f message.PlayerFinish) {
	delete(d, f.P1)
	delete(d, f.P2)
}

func (d PlayerDirectory) Clone() PlayerDirectory {
	c := make(PlayerDirectory, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// Analytics counts joins per client version.
type Analytics map[string]uint64

func (a Analytics) Record(version string) {
	if n := a[version]; n < math.MaxUint64 {
		a[version] = n + 1
	}
}

func (a Analytics) Clone() Analytics {
	c := make(Analytics, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
