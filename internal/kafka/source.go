// Package kafka wraps the franz-go client family behind the small surface
// the UI needs: topic listing, record scanning, topic details, and schema
// registry lookups.
package kafka

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/topix-dev/topix/internal/dev"
	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/query"
)

type Config struct {
	Brokers     []string
	RegistryURL string
	// ClientID shows up in broker logs and quota accounting
	ClientID string
}

// Source is the single long-lived connection bundle. Record scans create
// their own short-lived consumer clients so each search starts from the
// offsets its query asks for.
type Source struct {
	cfg      Config
	adminCl  *kgo.Client
	admin    *kadm.Client
	registry *sr.Client
}

func NewSource(cfg Config) (*Source, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no brokers configured")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "topix"
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to brokers: %w", err)
	}
	s := &Source{cfg: cfg, adminCl: cl, admin: kadm.NewClient(cl)}
	if cfg.RegistryURL != "" {
		rc, err := sr.NewClient(sr.URLs(cfg.RegistryURL))
		if err != nil {
			cl.Close()
			return nil, fmt.Errorf("connecting to schema registry: %w", err)
		}
		s.registry = rc
	}
	return s, nil
}

func (s *Source) Close() {
	s.adminCl.Close()
}

func (s *Source) HasRegistry() bool {
	return s.registry != nil
}

// ListTopics returns all non-internal topics sorted by name, with the
// record count approximated from partition watermarks.
func (s *Source) ListTopics(ctx context.Context) ([]model.Topic, error) {
	details, err := s.admin.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	starts, err := s.admin.ListStartOffsets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing start offsets: %w", err)
	}
	ends, err := s.admin.ListEndOffsets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing end offsets: %w", err)
	}

	var topics []model.Topic
	for name, detail := range details {
		if detail.Err != nil || detail.IsInternal || strings.HasPrefix(name, "_") {
			continue
		}
		topics = append(topics, model.Topic{
			Name:       name,
			Partitions: len(detail.Partitions),
			Count:      approxCount(name, starts, ends),
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	dev.Debug(fmt.Sprintf("listed %d topics", len(topics)))
	return topics, nil
}

// TopicDetail describes one topic plus the consumer groups with members
// currently assigned to it.
func (s *Source) TopicDetail(ctx context.Context, name string) (model.TopicDetail, error) {
	details, err := s.admin.ListTopics(ctx, name)
	if err != nil {
		return model.TopicDetail{}, fmt.Errorf("describing topic %s: %w", name, err)
	}
	detail, ok := details[name]
	if !ok || detail.Err != nil {
		return model.TopicDetail{}, fmt.Errorf("topic %s not found", name)
	}

	replicas := 0
	if len(detail.Partitions) > 0 {
		for _, p := range detail.Partitions {
			replicas = len(p.Replicas)
			break
		}
	}

	starts, err := s.admin.ListStartOffsets(ctx, name)
	if err != nil {
		return model.TopicDetail{}, fmt.Errorf("listing start offsets: %w", err)
	}
	ends, err := s.admin.ListEndOffsets(ctx, name)
	if err != nil {
		return model.TopicDetail{}, fmt.Errorf("listing end offsets: %w", err)
	}

	groups, err := s.groupsForTopic(ctx, name)
	if err != nil {
		// groups are nice to have on the details panel, the rest is not
		dev.Debug(fmt.Sprintf("listing consumer groups for %s: %v", name, err))
	}

	return model.TopicDetail{
		Name:           name,
		Partitions:     len(detail.Partitions),
		Replicas:       replicas,
		Count:          approxCount(name, starts, ends),
		ConsumerGroups: groups,
	}, nil
}

func (s *Source) groupsForTopic(ctx context.Context, topic string) ([]model.ConsumerGroup, error) {
	listed, err := s.admin.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, nil
	}
	described, err := s.admin.DescribeGroups(ctx, listed.Groups()...)
	if err != nil {
		return nil, err
	}

	var groups []model.ConsumerGroup
	for _, g := range described.Sorted() {
		if g.Err != nil {
			continue
		}
		members := 0
		for _, m := range g.Members {
			if assignment, ok := m.Assigned.AsConsumer(); ok {
				for _, t := range assignment.Topics {
					if t.Topic == topic {
						members++
						break
					}
				}
			}
		}
		if members > 0 {
			groups = append(groups, model.ConsumerGroup{
				Name:    g.Group,
				State:   g.State,
				Members: members,
			})
		}
	}
	return groups, nil
}

func approxCount(topic string, starts, ends kadm.ListedOffsets) int64 {
	var count int64
	ends.Each(func(end kadm.ListedOffset) {
		if end.Topic != topic {
			return
		}
		count += end.Offset
		if start, ok := starts.Lookup(end.Topic, end.Partition); ok {
			count -= start.Offset
		}
	})
	return count
}

// Scan consumes the given topics starting where the query's from clause
// says, sends matching records to out, and returns once limit records
// matched or ctx is cancelled. The caller owns out and ctx; cancelling ctx
// is the way to stop an open-ended tail.
func (s *Source) Scan(ctx context.Context, topics []string, q query.Query, limit int, out chan<- model.Record) error {
	if len(topics) == 0 {
		return fmt.Errorf("no topics selected")
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ClientID(s.cfg.ClientID),
		kgo.ConsumeTopics(topics...),
		kgo.ConsumeResetOffset(startOffset(q.From)),
	)
	if err != nil {
		return fmt.Errorf("creating consumer: %w", err)
	}
	defer cl.Close()

	dev.Debug(fmt.Sprintf("scanning %v for %q, limit %d", topics, q.Raw, limit))
	matched := 0
	for {
		fetches := cl.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(t string, p int32, err error) {
			dev.Debug(fmt.Sprintf("fetch error on %s/%d: %v", t, p, err))
		})
		for _, kr := range fetches.Records() {
			r := toRecord(kr, q.Raw)
			if !q.Matches(r) {
				continue
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
			matched++
			if limit > 0 && matched >= limit {
				return nil
			}
		}
	}
}

func startOffset(from query.From) kgo.Offset {
	switch from.Kind {
	case query.FromBegin:
		return kgo.NewOffset().AtStart()
	case query.FromEndMinus:
		return kgo.NewOffset().AtEnd().Relative(-from.Offset)
	case query.FromOffset:
		return kgo.NewOffset().At(from.Offset)
	case query.FromTime:
		return kgo.NewOffset().AfterMilli(from.Time.UnixMilli())
	default:
		return kgo.NewOffset().AtEnd()
	}
}

func toRecord(kr *kgo.Record, rawQuery string) model.Record {
	r := model.Record{
		Topic:     kr.Topic,
		Partition: kr.Partition,
		Offset:    kr.Offset,
		Timestamp: kr.Timestamp,
		Query:     rawQuery,
	}
	r.KeySchema, r.Key = splitSchemaHeader(kr.Key)
	r.ValueSchema, r.Value = splitSchemaHeader(kr.Value)
	for _, h := range kr.Headers {
		r.Headers = append(r.Headers, model.Header{Key: h.Key, Value: string(h.Value)})
	}
	return r
}

// splitSchemaHeader strips the Confluent wire format prefix (magic byte 0
// followed by the schema id as a big-endian uint32) when present.
func splitSchemaHeader(b []byte) (*model.SchemaRef, []byte) {
	if len(b) < 5 || b[0] != 0 {
		return nil, b
	}
	id := binary.BigEndian.Uint32(b[1:5])
	return &model.SchemaRef{ID: int(id)}, b[5:]
}

// SchemaByID resolves a schema id against the registry. The subject is the
// topic-name-strategy subject the caller expects the id to live under; it
// is informational and not validated against the registry.
func (s *Source) SchemaByID(ctx context.Context, id int, subject string) (model.SchemaDetail, error) {
	if s.registry == nil {
		return model.SchemaDetail{}, fmt.Errorf("no schema registry configured")
	}
	schema, err := s.registry.SchemaByID(ctx, id)
	if err != nil {
		return model.SchemaDetail{}, fmt.Errorf("fetching schema %d: %w", id, err)
	}
	return model.SchemaDetail{
		ID:      id,
		Subject: subject,
		URL:     fmt.Sprintf("%s/schemas/ids/%d", strings.TrimSuffix(s.cfg.RegistryURL, "/"), id),
		Type:    schema.Type.String(),
		Schema:  schema.Schema,
	}, nil
}

// Ping verifies broker connectivity before the UI starts.
func (s *Source) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.adminCl.Ping(ctx); err != nil {
		return fmt.Errorf("pinging brokers %v: %w", s.cfg.Brokers, err)
	}
	return nil
}
