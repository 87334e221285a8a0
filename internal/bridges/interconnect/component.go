package interconnect

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
)

// KindInfo is the kind label of the Info component every announced device
// carries.
const KindInfo = "device.info"

// Info records what a device announced about itself. The bridge attaches
// one to every entity it registers.
type Info struct {
	ecs.Base
	Address     string
	Name        string
	AnnouncedAt time.Time
}

// NewInfo creates an unattached Info component.
func NewInfo(address, name string) *Info {
	return &Info{
		Base:        ecs.NewBase(KindInfo),
		Address:     address,
		Name:        name,
		AnnouncedAt: time.Now(),
	}
}

// Commandable is implemented by systems that accept commands from the
// interconnect. HandleCommand runs inside a gateway unit of work; the lane
// gives it sibling access on its own entity.
type Commandable interface {
	HandleCommand(lane *ecs.Lane, name string, params json.RawMessage) error
}
