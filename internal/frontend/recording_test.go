package frontend_test

import (
	"bytes"
	"context"
	"testing"

	"buildstatus/internal/frontend"
	"buildstatus/internal/protocol"
	"buildstatus/internal/testsupport"
)

func TestRecordingHandlerStoresFinishedEdges(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	recorder := frontend.NewRecordingHandler(store, "session-1", nil)
	if err := frontend.New(bytes.NewReader(sampleStream(t)), recorder, nil).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if recorder.BuildID() != "session-1" {
		t.Fatalf("expected session id as build id, got %q", recorder.BuildID())
	}

	edges, err := store.RecentEdges(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEdges: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected two edges, got %#v", edges)
	}
	if edges[0].EdgeID != 2 || edges[0].ExitStatus != 1 || edges[0].StartMillis != 1 || edges[0].EndMillis != 30 {
		t.Fatalf("unexpected first edge %#v", edges[0])
	}
	if edges[1].Description != "CC a.o" || edges[1].Outputs[0] != "a.o" {
		t.Fatalf("unexpected second edge %#v", edges[1])
	}

	builds, err := store.RecentBuilds(ctx, 1)
	if err != nil {
		t.Fatalf("RecentBuilds: %v", err)
	}
	if len(builds) != 1 || !builds[0].Finished || builds[0].Parallelism != 2 {
		t.Fatalf("unexpected build %#v", builds)
	}
}

func TestRecordingHandlerNeedsBuildStart(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	stream := testsupport.EncodeStream(t,
		protocol.EdgeStarted{ID: 1},
		protocol.EdgeFinished{ID: 1, EndMillis: 1},
	)
	recorder := frontend.NewRecordingHandler(store, "", nil)
	if err := frontend.New(bytes.NewReader(stream), recorder, nil).Run(context.Background()); err == nil {
		t.Fatal("expected error for edge outside a build")
	}
}
