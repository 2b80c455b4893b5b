package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
)

// TopicRecordsUpdated announces that the record source has new content.
const TopicRecordsUpdated = "records.updated"

// RecordsUpdatedMsg is the body of a records.updated event. Origin
// identifies the publisher so that a server can ignore its own events.
type RecordsUpdatedMsg struct {
	Message string `json:"message"`
	Origin  string `json:"origin"`
	Source  string `json:"source,omitempty"`
	Key     string `json:"key,omitempty"`
	Version string `json:"version,omitempty"`
	Records int    `json:"records,omitempty"`
}

// PublishRecordsUpdated announces new record data.
func PublishRecordsUpdated(ctx context.Context, ch Channel, msg RecordsUpdatedMsg) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := PublishTopic(ctx, ch, TopicRecordsUpdated, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TopicRecordsUpdated, err)
	}
	logger.Debug("[Queue] Published event", "topic", TopicRecordsUpdated, "origin", msg.Origin)
	return nil
}

// Reloader reloads the record set.
type Reloader interface {
	Reload(ctx context.Context) (*common.RecordSet, error)
}

// ReloadOnUpdate returns a handler that reloads r for every records.updated
// event not published by origin.
func ReloadOnUpdate(r Reloader, origin string) Handler {
	return func(ctx context.Context, body []byte) error {
		var msg RecordsUpdatedMsg
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("invalid %s message: %w", TopicRecordsUpdated, err)
		}
		if msg.Origin == origin {
			logger.Debug("[Queue] Ignoring own event", "origin", origin)
			return nil
		}

		logger.Info("[Queue] Records updated, reloading", "origin", msg.Origin, "key", msg.Key)
		set, err := r.Reload(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Queue] Reloaded records", "version", set.Version(), "records", set.Len())
		return nil
	}
}
