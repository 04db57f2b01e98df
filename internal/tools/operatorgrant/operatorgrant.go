package operatorgrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
)

// Config holds operator grant tool configuration.
type Config struct {
	Issue   bool
	Subject string
	Scopes  string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag set is required")
	}
	var cfg Config
	fs.BoolVar(&cfg.Issue, "issue", false, "issue a grant signed with GAMEKEEPER_OPERATOR_GRANT_PRIVATE_KEY instead of generating keys")
	fs.StringVar(&cfg.Subject, "subject", "", "operator id recorded as the grant subject (required with -issue)")
	fs.StringVar(&cfg.Scopes, "scopes", grant.ScopeAdmin, "space-separated grant scopes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates an operator grant key pair and writes exports.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate operator grant key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvPrivateKey, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvPublicKey, base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

// Issue signs one grant with the signer configured through lookup and writes
// the token. A nil lookup reads the process environment.
func Issue(out io.Writer, cfg Config, lookup func(string) (string, bool), now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	signer, err := grant.LoadSignerConfig(lookup, now)
	if err != nil {
		return err
	}
	token, err := grant.Sign(signer, cfg.Subject, strings.Fields(cfg.Scopes)...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
