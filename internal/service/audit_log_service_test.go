package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rodrymza/app-novedades/internal/domain"
	"github.com/Rodrymza/app-novedades/internal/events"
)

func TestAuditLogServiceLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewAuditLogService(dispatcher, zap.New(core)).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventEntityDeleted,
		EntityKind: domain.EntityNovedad,
		EntityID:   "n1",
		Actor:      events.Actor{UserID: "s1", Username: "sup", Role: domain.RoleSupervisor},
		Payload:    events.LifecyclePayload{Reason: "Duplicada"},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage(string(events.EventEntityDeleted)).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "novedad", fields["entity"])
	assert.Equal(t, "n1", fields["entity_id"])
	assert.Equal(t, "s1", fields["actor_id"])
	assert.Equal(t, "sup", fields["actor_username"])
	assert.Equal(t, "Duplicada", fields["reason"])
	assert.NotEmpty(t, fields["event_id"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}

func TestAuditLogServiceWiredThroughServices(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewAuditLogService(dispatcher, zap.New(core)).RegisterHandlers()

	f := newFixture(t, nil)
	areas := NewAreaService(AreaDependencies{AreaRepo: f.store.Areas(), Dispatcher: dispatcher})
	_, err := areas.Create(context.Background(), f.supervisor, AreaInput{Name: strPtr("Taller")})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage(string(events.EventAreaCreated)).Len())
}
