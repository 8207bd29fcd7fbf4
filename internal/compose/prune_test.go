package compose

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
)

func TestPruneProjectAggregatesReport(t *testing.T) {
	fake := &fakeDockerClient{
		containersPrune: container.PruneReport{ContainersDeleted: []string{"c1", "c2"}, SpaceReclaimed: 100},
		networksPrune:   network.PruneReport{NetworksDeleted: []string{"delirium_default"}},
		imagesPrune:     image.PruneReport{ImagesDeleted: []image.DeleteResponse{{Deleted: "sha256:x"}}, SpaceReclaimed: 400},
		volumesPrune:    volume.PruneReport{VolumesDeleted: []string{"delirium_data"}, SpaceReclaimed: 200},
	}

	report, err := PruneProject(context.Background(), fake, PruneOptions{Project: "delirium", RemoveVolumes: true})
	if err != nil {
		t.Fatalf("PruneProject() error = %v", err)
	}
	if len(report.ContainersDeleted) != 2 {
		t.Fatalf("containers = %v", report.ContainersDeleted)
	}
	if len(report.NetworksDeleted) != 1 || len(report.VolumesDeleted) != 1 || len(report.ImagesDeleted) != 1 {
		t.Fatalf("report = %#v", report)
	}
	if report.SpaceReclaimed != 700 {
		t.Fatalf("space = %d", report.SpaceReclaimed)
	}
}

func TestPruneProjectSkipsVolumesByDefault(t *testing.T) {
	fake := &fakeDockerClient{}
	if _, err := PruneProject(context.Background(), fake, PruneOptions{Project: "delirium"}); err != nil {
		t.Fatalf("PruneProject() error = %v", err)
	}
	if fake.volumesCalled {
		t.Fatal("volumes should not be pruned without RemoveVolumes")
	}
}

func TestPruneProjectRequiresProject(t *testing.T) {
	if _, err := PruneProject(context.Background(), &fakeDockerClient{}, PruneOptions{}); err == nil {
		t.Fatal("expected error for empty project")
	}
	if _, err := PruneProject(context.Background(), nil, PruneOptions{Project: "delirium"}); err == nil {
		t.Fatal("expected error for nil client")
	}
}
