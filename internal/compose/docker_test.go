package compose

import (
	"context"
	"reflect"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
)

type fakeDockerClient struct {
	containers []container.Summary
	listErr    error

	stopped []string

	containersPrune container.PruneReport
	imagesPrune     image.PruneReport
	networksPrune   network.PruneReport
	volumesPrune    volume.PruneReport
	volumesCalled   bool
}

func (f *fakeDockerClient) Ping(context.Context) (types.Ping, error) {
	return types.Ping{APIVersion: "1.47"}, nil
}

func (f *fakeDockerClient) ContainerList(_ context.Context, _ container.ListOptions) ([]container.Summary, error) {
	return f.containers, f.listErr
}

func (f *fakeDockerClient) ContainerStop(_ context.Context, containerID string, _ container.StopOptions) error {
	f.stopped = append(f.stopped, containerID)
	return nil
}

func (f *fakeDockerClient) ContainerRemove(_ context.Context, _ string, _ container.RemoveOptions) error {
	return nil
}

func (f *fakeDockerClient) ContainersPrune(_ context.Context, _ filters.Args) (container.PruneReport, error) {
	return f.containersPrune, nil
}

func (f *fakeDockerClient) ImagesPrune(_ context.Context, _ filters.Args) (image.PruneReport, error) {
	return f.imagesPrune, nil
}

func (f *fakeDockerClient) NetworksPrune(_ context.Context, _ filters.Args) (network.PruneReport, error) {
	return f.networksPrune, nil
}

func (f *fakeDockerClient) VolumesPrune(_ context.Context, _ filters.Args) (volume.PruneReport, error) {
	f.volumesCalled = true
	return f.volumesPrune, nil
}

func TestListProjectContainersFiltersByLabel(t *testing.T) {
	fake := &fakeDockerClient{containers: []container.Summary{
		{
			ID:     "aaa",
			Names:  []string{"/delirium-server-1"},
			State:  "running",
			Labels: map[string]string{"com.docker.compose.project": "delirium", "com.docker.compose.service": "server"},
			Ports:  []container.Port{{PrivatePort: 4000, PublicPort: 4000}},
		},
		{
			ID:     "bbb",
			Names:  []string{"/other-app-1"},
			State:  "running",
			Labels: map[string]string{"com.docker.compose.project": "other"},
		},
	}}

	infos, err := ListProjectContainers(context.Background(), fake, "delirium")
	if err != nil {
		t.Fatalf("ListProjectContainers() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("infos = %#v", infos)
	}
	want := ContainerInfo{Name: "delirium-server-1", Service: "server", State: "running", Ports: []int{4000}}
	if !reflect.DeepEqual(infos[0], want) {
		t.Fatalf("info = %#v, want %#v", infos[0], want)
	}
}

func TestFindPortOccupantOwnedByNamePrefix(t *testing.T) {
	fake := &fakeDockerClient{containers: []container.Summary{
		{
			ID:    "ccc",
			Names: []string{"/delirium-client-1"},
			Ports: []container.Port{{PrivatePort: 80, PublicPort: 8080}},
		},
	}}

	occ, err := FindPortOccupant(context.Background(), fake, "delirium", 8080)
	if err != nil {
		t.Fatalf("FindPortOccupant() error = %v", err)
	}
	if occ == nil || !occ.Owned || occ.ContainerID != "ccc" {
		t.Fatalf("occupant = %#v", occ)
	}
}

func TestFindPortOccupantOwnedByLabel(t *testing.T) {
	fake := &fakeDockerClient{containers: []container.Summary{
		{
			ID:     "ddd",
			Names:  []string{"/renamed-thing"},
			Labels: map[string]string{"com.docker.compose.project": "delirium"},
			Ports:  []container.Port{{PrivatePort: 80, PublicPort: 80}},
		},
	}}

	occ, err := FindPortOccupant(context.Background(), fake, "delirium", 80)
	if err != nil {
		t.Fatalf("FindPortOccupant() error = %v", err)
	}
	if occ == nil || !occ.Owned {
		t.Fatalf("occupant = %#v", occ)
	}
}

func TestFindPortOccupantForeign(t *testing.T) {
	fake := &fakeDockerClient{containers: []container.Summary{
		{
			ID:    "eee",
			Names: []string{"/nginx-proxy"},
			Ports: []container.Port{{PrivatePort: 80, PublicPort: 80}},
		},
	}}

	occ, err := FindPortOccupant(context.Background(), fake, "delirium", 80)
	if err != nil {
		t.Fatalf("FindPortOccupant() error = %v", err)
	}
	if occ == nil || occ.Owned {
		t.Fatalf("occupant = %#v", occ)
	}
	if occ.Name != "nginx-proxy" {
		t.Fatalf("name = %q", occ.Name)
	}
}

func TestFindPortOccupantNone(t *testing.T) {
	fake := &fakeDockerClient{}
	occ, err := FindPortOccupant(context.Background(), fake, "delirium", 443)
	if err != nil {
		t.Fatalf("FindPortOccupant() error = %v", err)
	}
	if occ != nil {
		t.Fatalf("occupant = %#v, want nil", occ)
	}
}

func TestStopContainerRecordsID(t *testing.T) {
	fake := &fakeDockerClient{}
	if err := StopContainer(context.Background(), fake, "abc123"); err != nil {
		t.Fatalf("StopContainer() error = %v", err)
	}
	if !reflect.DeepEqual(fake.stopped, []string{"abc123"}) {
		t.Fatalf("stopped = %v", fake.stopped)
	}
}

func TestNilClientErrors(t *testing.T) {
	if _, err := ListProjectContainers(context.Background(), nil, "delirium"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := FindPortOccupant(context.Background(), nil, "delirium", 80); err == nil {
		t.Fatal("expected error")
	}
	if err := StopContainer(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error")
	}
}
