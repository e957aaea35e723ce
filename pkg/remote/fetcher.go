// Package remote fetches and verifies the optional "downloaded"
// configuration layer from a signed SFTP mirror. It fetches configuration
// only — package payloads are never fetched here.
package remote

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Config describes the SFTP mirror to fetch the bundle and its detached
// signature from.
type Config struct {
	Host              string
	Port              int
	User              string
	PrivateKeyPath    string
	KnownHostsPath    string
	BundlePath        string // remote path to the CCL bundle
	SignaturePath     string // remote path to the ed25519 detached signature
	PublicKeyPath     string // local path to the ed25519 public key, raw 32 bytes
	ConnectionTimeout time.Duration
}

func (c Config) address() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Fetcher connects to a configured SFTP mirror and retrieves a signed CCL
// bundle.
type Fetcher struct {
	cfg Config
}

// NewFetcher constructs a Fetcher for cfg.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = 30 * time.Second
	}
	return &Fetcher{cfg: cfg}
}

// Fetch connects, downloads the bundle and its signature, verifies the
// signature against the configured public key, and returns the bundle
// bytes. Any verification failure returns an error, never silently
// ignored; the unverified bundle is not returned.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	pubKeyBytes, err := os.ReadFile(f.cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key at %s is not %d bytes", f.cfg.PublicKeyPath, ed25519.PublicKeySize)
	}
	pubKey := ed25519.PublicKey(pubKeyBytes)

	clientConfig, err := f.buildClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build ssh client config: %w", err)
	}

	sshClient, err := dialWithContext(ctx, f.cfg.address(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", f.cfg.address(), err)
	}
	defer sshClient.Close()

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}
	defer sftpClient.Close()

	bundle, err := readRemoteFile(sftpClient, f.cfg.BundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bundle: %w", err)
	}
	signature, err := readRemoteFile(sftpClient, f.cfg.SignaturePath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signature: %w", err)
	}

	if !ed25519.Verify(pubKey, bundle, signature) {
		return nil, fmt.Errorf("signature verification failed for %s", f.cfg.BundlePath)
	}

	return bundle, nil
}

func (f *Fetcher) buildClientConfig() (*ssh.ClientConfig, error) {
	keyBytes, err := os.ReadFile(f.cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	hostKeyCallback, err := hostKeyCallbackFor(f.cfg.KnownHostsPath)
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            f.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         f.cfg.ConnectionTimeout,
	}, nil
}

func hostKeyCallbackFor(path string) (ssh.HostKeyCallback, error) {
	if path == "" {
		return nil, fmt.Errorf("a known_hosts path is required for host key verification")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts: %w", err)
	}
	return cb, nil
}

func dialWithContext(ctx context.Context, address string, clientConfig *ssh.ClientConfig) (*ssh.Client, error) {
	type result struct {
		client *ssh.Client
		err    error
	}
	done := make(chan result, 1)
	go func() {
		client, err := ssh.Dial("tcp", address, clientConfig)
		done <- result{client: client, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.client, r.err
	}
}

func readRemoteFile(client *sftp.Client, path string) ([]byte, error) {
	f, err := client.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
