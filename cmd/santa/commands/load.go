package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/santa-org/santa/pkg/ccl"
	"github.com/santa-org/santa/pkg/remote"
	"github.com/santa-org/santa/pkg/santa"
	"github.com/santa-org/santa/pkg/santa/defaults"
)

// loadConfig builds the layered RawLayer set (bundled, optional downloaded,
// optional user, optional project) and resolves them into a single
// ResolvedConfig. An explicit --project/--user flag wins outright; failing
// that, the SANTA_* environment variables and the config-file search order
// take over. SANTA_BUILTIN_ONLY skips the user and project layers
// entirely; SANTA_SOURCES/SANTA_PACKAGES then filter the resolved result.
func loadConfig() (*santa.ResolvedConfig, error) {
	opts := ccl.DefaultOptions()

	bundled, err := santa.LoadLayer(defaults.SourcesDocument, santa.LayerBundled, opts)
	if err != nil {
		return nil, err
	}
	layers := []santa.RawLayer{bundled}

	if layer, ok, err := loadDownloadedLayer(opts); err != nil {
		return nil, err
	} else if ok {
		layers = append(layers, layer)
	}

	if !envBool("SANTA_BUILTIN_ONLY") {
		if path := resolveUserPath(); path != "" {
			layer, ok, err := loadLayerFromFile(path, santa.LayerUser, opts)
			if err != nil {
				return nil, err
			}
			if ok {
				layers = append(layers, layer)
			}
		}

		if path := resolveProjectPath(); path != "" {
			layer, ok, err := loadLayerFromFile(path, santa.LayerProject, opts)
			if err != nil {
				return nil, err
			}
			if ok {
				layers = append(layers, layer)
			}
		}
	}

	cfg, err := santa.Resolve(layers...)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadLayerFromFile reads path and parses it as layer, reporting ok=false
// (no error) when the file simply does not exist — every file-backed
// layer besides bundled is optional.
func loadLayerFromFile(path string, layer santa.Layer, opts ccl.Options) (santa.RawLayer, bool, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return santa.RawLayer{}, false, nil
		}
		return santa.RawLayer{}, false, santa.NewConfigError("failed to read config "+path, err)
	}
	out, err := santa.LoadLayer(string(text), layer, opts)
	if err != nil {
		return santa.RawLayer{}, false, err
	}
	return out, true, nil
}

// resolveUserPath honors an explicit --user flag first, then falls back to
// the search order's user-level entry.
func resolveUserPath() string {
	if userPath != "" {
		return userPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "santa", "config.ccl")
}

// resolveProjectPath honors an explicit --project flag first, then
// SANTA_CONFIG, then the project-local default ./.santa/config.ccl. In the
// documented search order ($SANTA_CONFIG -> ~/.config/santa/config.ccl ->
// ./.santa/config.ccl -> bundled defaults), the ~/.config entry is
// resolveUserPath's job and the bundled defaults are always loaded by
// loadConfig; this covers the other two.
func resolveProjectPath() string {
	if projectPath != "" {
		return projectPath
	}
	if v := os.Getenv("SANTA_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(".santa", "config.ccl")
}

// loadDownloadedLayer fetches and parses the signed remote mirror
// configured via SANTA_DEFS_REMOTE/SANTA_DEFS_PUBKEY. Absent
// SANTA_DEFS_REMOTE, the downloaded layer is simply skipped and resolution
// proceeds with bundled/user/project alone.
func loadDownloadedLayer(opts ccl.Options) (santa.RawLayer, bool, error) {
	remoteURL := os.Getenv("SANTA_DEFS_REMOTE")
	if remoteURL == "" {
		return santa.RawLayer{}, false, nil
	}
	pubKeyPath := os.Getenv("SANTA_DEFS_PUBKEY")
	if pubKeyPath == "" {
		return santa.RawLayer{}, false, santa.NewConfigError("SANTA_DEFS_REMOTE is set but SANTA_DEFS_PUBKEY is not", nil)
	}

	cfg, err := parseRemoteConfig(remoteURL, pubKeyPath)
	if err != nil {
		return santa.RawLayer{}, false, santa.NewConfigError("failed to parse SANTA_DEFS_REMOTE", err)
	}

	fetcher := remote.NewFetcher(cfg)
	bundle, err := fetcher.Fetch(context.Background())
	if err != nil {
		return santa.RawLayer{}, false, santa.NewIOError("failed to fetch downloaded config layer", err)
	}

	layer, err := santa.LoadLayer(string(bundle), santa.LayerDownloaded, opts)
	if err != nil {
		return santa.RawLayer{}, false, err
	}
	return layer, true, nil
}

// parseRemoteConfig turns an "sftp://[user@]host[:port]/path/to/bundle.ccl"
// URL plus a local ed25519 public-key path into a remote.Config. The
// detached signature is expected alongside the bundle as "<bundle>.sig";
// the SSH identity and known_hosts file are the user's default ~/.ssh
// ones, matching how an operator would already have the mirror's host key
// trusted for interactive use.
func parseRemoteConfig(remoteURL, pubKeyPath string) (remote.Config, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return remote.Config{}, err
	}
	if u.Scheme != "sftp" {
		return remote.Config{}, fmt.Errorf("unsupported scheme %q, want sftp", u.Scheme)
	}
	if u.Path == "" {
		return remote.Config{}, fmt.Errorf("SANTA_DEFS_REMOTE is missing a bundle path")
	}

	port := 22
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return remote.Config{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		port = n
	}

	user := ""
	if u.User != nil {
		user = u.User.Username()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return remote.Config{}, fmt.Errorf("failed to resolve home directory for ssh identity: %w", err)
	}

	return remote.Config{
		Host:           u.Hostname(),
		Port:           port,
		User:           user,
		PrivateKeyPath: filepath.Join(home, ".ssh", "id_ed25519"),
		KnownHostsPath: filepath.Join(home, ".ssh", "known_hosts"),
		BundlePath:     u.Path,
		SignaturePath:  u.Path + ".sig",
		PublicKeyPath:  pubKeyPath,
	}, nil
}

// applyEnvOverrides applies SANTA_SOURCES/SANTA_PACKAGES, each a
// comma-separated allow-list, narrowing an already-resolved config down to
// exactly the named sources/packages. A package named in SANTA_PACKAGES
// that the layered config never declared is added as a bare entry,
// installable from any enabled source under its own name.
func applyEnvOverrides(cfg *santa.ResolvedConfig) {
	if raw := os.Getenv("SANTA_SOURCES"); raw != "" {
		allowed := splitCSV(raw)
		allow := make(map[string]bool, len(allowed))
		for _, name := range allowed {
			allow[name] = true
		}

		order := make([]string, 0, len(allowed))
		for _, name := range cfg.SourceOrder {
			if allow[name] {
				order = append(order, name)
			}
		}
		cfg.SourceOrder = order

		for name := range cfg.Sources {
			if !allow[name] {
				delete(cfg.Sources, name)
			}
		}
	}

	if raw := os.Getenv("SANTA_PACKAGES"); raw != "" {
		allowed := splitCSV(raw)
		filtered := make(map[string]santa.Package, len(allowed))
		for _, name := range allowed {
			if pkg, ok := cfg.Packages[name]; ok {
				filtered[name] = pkg
			} else {
				filtered[name] = santa.Package{Name: name}
			}
		}
		cfg.Packages = filtered
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
