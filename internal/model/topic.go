package model

import (
	"fmt"

	"github.com/topix-dev/topix/internal/util"
)

// Topic is one row of the topics panel.
type Topic struct {
	Name       string
	Partitions int
	// Count is the approximate number of records, summed from partition
	// start/end offsets. Compaction makes this an upper bound.
	Count int64
}

func (t Topic) Render() string {
	return fmt.Sprintf("%s  (%d partitions, %s records)", t.Name, t.Partitions, util.FormatCount(t.Count))
}

func (t Topic) Equals(other interface{}) bool {
	otherTopic, ok := other.(Topic)
	if !ok {
		return false
	}
	return t.Name == otherTopic.Name
}

// ConsumerGroup is one consumer group consuming a topic, as shown on the
// topic details panel.
type ConsumerGroup struct {
	Name    string
	State   string
	Members int
}

// TopicDetail is everything the topic details panel knows about one topic.
type TopicDetail struct {
	Name           string
	Partitions     int
	Replicas       int
	Count          int64
	ConsumerGroups []ConsumerGroup
}
