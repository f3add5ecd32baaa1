package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"

	"github.com/sysu-dev/sysu/model"
)

// AdapterOverrides maps a target protocol to an external command that
// should be invoked with a single "[user@]host" argument, taking
// precedence over the built-in ssh/local/podman rules.
type AdapterOverrides map[string]string

// BuildCommand selects a spawn specification for target. A nil target
// (the unit has no explicit target) runs directly on /bin/sh, matching a
// local-only unit with no adapter indirection at all.
func BuildCommand(target *model.Target, overrides AdapterOverrides) (Command, error) {
	if target == nil {
		return Command{Program: "/bin/sh"}, nil
	}

	if override, ok := overrides[target.Proto]; ok {
		return Command{Program: override, Args: []string{target.UserHostString()}}, nil
	}

	switch target.Proto {
	case "ssh":
		preflightSSHHostKey(target.Host)
		return Command{Program: "ssh", Args: []string{sshUserHost(*target)}}, nil
	case "local":
		if target.Host != "localhost" {
			return Command{}, fmt.Errorf("adapter: local target host must be \"localhost\", got %q", target.Host)
		}
		return Command{Program: "/bin/sh"}, nil
	case "podman":
		args := []string{"exec", "-i"}
		if target.HasUser() {
			args = append(args, "--user", target.User)
		}
		args = append(args, target.Host, "/bin/sh")
		return Command{Program: "podman", Args: args}, nil
	default:
		return Command{}, fmt.Errorf("adapter: no adapter for target %s", target.String())
	}
}

// sshUserHost renders "[user@]host" for the ssh adapter, falling back to
// the user configured for the host in ~/.ssh/config when the target did
// not specify one explicitly.
func sshUserHost(target model.Target) string {
	if target.HasUser() {
		return target.UserHostString()
	}
	if user := sshConfigUser(target.Host); user != "" {
		return user + "@" + target.Host
	}
	return target.Host
}

func sshConfigUser(host string) string {
	return ssh_config.Get(host, "User")
}

// preflightSSHHostKey does a dry, local-only check that host has a known
// host key on file, so operators get an early warning in logs before the
// real "ssh" exec connects and (depending on StrictHostKeyChecking) fails
// or prompts. It never dials out; it only parses ~/.ssh/known_hosts.
func preflightSSHHostKey(host string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return
	}

	rest := data
	for len(rest) > 0 {
		_, hosts, _, _, remainder, err := ssh.ParseKnownHosts(rest)
		if err != nil {
			return
		}
		for _, h := range hosts {
			if h == host {
				return
			}
		}
		rest = remainder
	}
	slog.Warn("ssh adapter: no known_hosts entry for target", "host", host)
}
