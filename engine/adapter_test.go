package engine

import (
	"testing"

	"github.com/sysu-dev/sysu/model"
)

func TestBuildCommandNilTarget(t *testing.T) {
	cmd, err := BuildCommand(nil, nil)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Program != "/bin/sh" || len(cmd.Args) != 0 {
		t.Fatalf("cmd = %+v", cmd)
	}
}

func TestBuildCommandOverride(t *testing.T) {
	target := model.NewTarget("custom", "bob", "box1")
	overrides := AdapterOverrides{"custom": "my-adapter"}

	cmd, err := BuildCommand(&target, overrides)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Program != "my-adapter" {
		t.Fatalf("Program = %q", cmd.Program)
	}
	if len(cmd.Args) != 1 || cmd.Args[0] != "bob@box1" {
		t.Fatalf("Args = %v", cmd.Args)
	}
}

func TestBuildCommandSSH(t *testing.T) {
	target := model.NewTarget("ssh", "deploy", "host.example.com")
	cmd, err := BuildCommand(&target, nil)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Program != "ssh" {
		t.Fatalf("Program = %q", cmd.Program)
	}
	if len(cmd.Args) != 1 || cmd.Args[0] != "deploy@host.example.com" {
		t.Fatalf("Args = %v", cmd.Args)
	}
}

func TestBuildCommandLocalRequiresLocalhost(t *testing.T) {
	target := model.NewTarget("local", "", "localhost")
	cmd, err := BuildCommand(&target, nil)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if cmd.Program != "/bin/sh" {
		t.Fatalf("Program = %q", cmd.Program)
	}

	bad := model.NewTarget("local", "", "otherhost")
	if _, err := BuildCommand(&bad, nil); err == nil {
		t.Fatal("expected error for non-localhost local target, got nil")
	}
}

func TestBuildCommandPodman(t *testing.T) {
	target := model.NewTarget("podman", "", "mycontainer")
	cmd, err := BuildCommand(&target, nil)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	want := []string{"exec", "-i", "mycontainer", "/bin/sh"}
	if cmd.Program != "podman" || len(cmd.Args) != len(want) {
		t.Fatalf("cmd = %+v", cmd)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("Args = %v, want %v", cmd.Args, want)
		}
	}
}

func TestBuildCommandPodmanWithUser(t *testing.T) {
	target := model.NewTarget("podman", "root", "mycontainer")
	cmd, err := BuildCommand(&target, nil)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	want := []string{"exec", "-i", "--user", "root", "mycontainer", "/bin/sh"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", cmd.Args, want)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("Args = %v, want %v", cmd.Args, want)
		}
	}
}

func TestBuildCommandUnknownProtocol(t *testing.T) {
	target := model.NewTarget("gopher", "", "host")
	if _, err := BuildCommand(&target, nil); err == nil {
		t.Fatal("expected error for unknown protocol, got nil")
	}
}
