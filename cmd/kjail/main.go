package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/kjail/nsjail/internal/collab"
	"github.com/kjail/nsjail/pkg/cgroup"
	"github.com/kjail/nsjail/pkg/config"
	"github.com/kjail/nsjail/pkg/jail"
	"github.com/kjail/nsjail/pkg/mount"
)

const standaloneChildFlag = "standalone-child"

// bindFlags collects repeated -bind flags, validating each spec as it
// is parsed so a malformed src:dst fails at flag-parse time instead of
// halfway through jail assembly.
type bindFlags []string

func (f *bindFlags) String() string {
	return strings.Join(*f, ", ")
}

func (f *bindFlags) Set(value string) error {
	if _, _, err := splitBind(value); err != nil {
		return err
	}
	*f = append(*f, value)
	return nil
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] -- <args>\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a jail definition YAML file")
		chroot     = flag.String("chroot", "", "chroot path when -new-mount-ns=false")
		cwd        = flag.String("cwd", "/", "working directory inside the jail")
		newMountNS = flag.Bool("new-mount-ns", true, "construct a full mount namespace instead of a bare chroot")
		standalone = flag.Bool("standalone-exec", false, "use the sub-child mount construction required for a fresh pid namespace")
		isChild    = flag.Bool(standaloneChildFlag, false, "internal: run as the standalone mount sub-child")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	var binds bindFlags
	flag.Var(&binds, "bind", "source:destination bind mount, repeatable")
	flag.Usage = printUsage
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	logger := collab.NewLogrusLogger(log)

	cfg, err := loadConfig(*configPath, *chroot, *cwd, *newMountNS)
	if err != nil {
		logger.Fatal("kjail: %v", err)
	}
	if err := addBindMounts(cfg.Mounts, binds); err != nil {
		logger.Fatal("kjail: %v", err)
	}

	mcfg := &mount.Config{
		List:       cfg.Mounts,
		NewMountNS: cfg.NewMountNS,
		ChrootPath: cfg.ChrootPath,
		ScratchUID: cfg.ScratchUID,
		Cwd:        cfg.Cwd,
		Logger:     logger,
	}

	// the re-exec'd sub-child rebuilds the identical configuration from
	// the same command line, performs the construction, and exits.
	if *isChild {
		jail.InitNSChild(mcfg, logger)
	}

	if *standalone {
		cfg.Mode = config.ModeStandaloneExecve
	}
	if cfg.Mode == config.ModeStandaloneExecve {
		err = jail.RunStandaloneMount(childArgs(os.Args), logger)
	} else {
		err = mount.InitNS(mcfg)
	}
	if err != nil {
		logger.Fatal("kjail: mount construction failed: %v", err)
	}

	// enroll this process in the configured cgroups before exec; the
	// jailed program inherits the membership across execve.
	if err := cgroup.InitFromParent(&cfg.Cgroup, os.Getpid()); err != nil {
		logger.Fatal("kjail: cgroup install failed: %v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		logger.Fatal("kjail: no command given after --")
	}
	argv0, lookErr := exec0(args[0])
	if lookErr != nil {
		logger.Fatal("kjail: %v", lookErr)
	}
	if err := unix.Exec(argv0, args, os.Environ()); err != nil {
		logger.Fatal("kjail: execve %q: %v", argv0, err)
	}
}

// childArgs builds the sub-child's argv: the original command line with
// -standalone-child inserted ahead of any "--" terminator so the flag
// package still parses it.
func childArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	inserted := false
	for _, a := range args {
		if !inserted && a == "--" {
			out = append(out, "-"+standaloneChildFlag)
			inserted = true
		}
		out = append(out, a)
	}
	if !inserted {
		out = append(out, "-"+standaloneChildFlag)
	}
	return out
}

func loadConfig(path, chroot, cwd string, newMountNS bool) (*config.Config, error) {
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if c.Mounts == nil {
			c.Mounts = mount.NewList()
		}
		return c, nil
	}
	return &config.Config{
		Mounts:     mount.NewList(),
		ChrootPath: chroot,
		Cwd:        cwd,
		NewMountNS: newMountNS,
		ScratchUID: os.Getuid(),
	}, nil
}

// addBindMounts turns repeated -bind src:dst flags into mandatory,
// writable recursive bind descriptors appended to the sequence.
func addBindMounts(list *mount.List, binds bindFlags) error {
	for _, b := range binds {
		src, dst, err := splitBind(b)
		if err != nil {
			return err
		}
		p := &mount.Point{
			Source:      src,
			Destination: dst,
			Flags:       unix.MS_BIND | unix.MS_REC,
			IsMandatory: true,
		}
		if err := list.AddTail(p, collab.OSEnvLookup); err != nil {
			return fmt.Errorf("kjail: bind %q: %w", b, err)
		}
	}
	return nil
}

func splitBind(spec string) (src, dst string, err error) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			return spec[:i], spec[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("bind spec %q must be of the form src:dst", spec)
}

func exec0(name string) (string, error) {
	if len(name) > 0 && name[0] == '/' {
		return name, nil
	}
	return exec.LookPath(name)
}
