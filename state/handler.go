package state

import (
	"strings"

	"github.com/weftnet/weft/p2p"
)

// Dispatcher is the engine surface the network handler needs.
type Dispatcher interface {
	Dispatch(a Action) ActionID
}

const linkAttributePrefix = "link__"

// NewHandler adapts inbound network messages to dispatched actions.
// Response messages become their Handle* actions; request messages directed
// at this node's DHT shard (StoreEntry, FetchEntry as a holder, HandleSend)
// are ignored here, as serving other agents' requests is the DHT layer's
// concern, not the state core's.
func NewHandler(d Dispatcher) p2p.Handler {
	return func(msg p2p.Message) {
		switch m := msg.(type) {
		case p2p.FetchEntryResult:
			d.Dispatch(HandleFetchResult{Result: m})
		case p2p.FetchMetaResult:
			tag, ok := strings.CutPrefix(m.Attribute, linkAttributePrefix)
			if !ok {
				return
			}
			d.Dispatch(HandleGetLinksResult{Result: m, Tag: tag})
		case p2p.HandleSendResult:
			d.Dispatch(HandleGetValidationPackage{
				Address: m.EntryAddress,
				Content: m.Content,
			})
		}
	}
}
