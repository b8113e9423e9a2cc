package filae

import (
	"bytes"
	"encoding/json"
)

// NormalizeMyQueues converts a raw my-queues response body into the
// canonical MyQueues shape. The server has been observed to answer with
// either a flat ticket list or a pre-partitioned object; anything else is
// treated as contract drift and degrades to an empty view with ok=false so
// the caller can log it. A partitioned object must carry both keys, but a
// null partition counts as empty — the server sends that for users with
// no history. Normalization never fails and is idempotent: normalizing
// the encoding of a normalized value yields an equal value.
func NormalizeMyQueues(raw json.RawMessage) (MyQueues, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return MyQueues{}, false
	}

	switch trimmed[0] {
	case '[':
		var tickets []Ticket
		if err := json.Unmarshal(trimmed, &tickets); err != nil {
			return MyQueues{}, false
		}
		return partitionTickets(tickets), true

	case '{':
		// Key presence is checked against the raw object so that an
		// explicit null partition is distinguishable from a missing one.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return MyQueues{}, false
		}
		active, hasActive := fields["activeQueues"]
		history, hasHistory := fields["historyQueues"]
		if !hasActive || !hasHistory {
			return MyQueues{}, false
		}
		var view MyQueues
		if err := json.Unmarshal(active, &view.ActiveQueues); err != nil {
			return MyQueues{}, false
		}
		if err := json.Unmarshal(history, &view.HistoryQueues); err != nil {
			return MyQueues{}, false
		}
		return view, true
	}

	return MyQueues{}, false
}

// partitionTickets splits a flat list by status, preserving server order
// within each partition. The server already sorts by position/recency.
func partitionTickets(tickets []Ticket) MyQueues {
	var view MyQueues
	for _, t := range tickets {
		if t.Status.Active() {
			view.ActiveQueues = append(view.ActiveQueues, t)
		} else {
			view.HistoryQueues = append(view.HistoryQueues, t)
		}
	}
	return view
}
