// Command elra_keys generates the payroll runner's system API key and signs
// development tokens for local testing.
//
//	elra_keys apikey
//	elra_keys token -user u-1 -tenant t-1 -department "Finance & Accounting" -role 3
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/middleware"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
	"github.com/SscSPs/elra_wallet/internal/utils"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "apikey":
		err = generateAPIKey(os.Args[2:])
	case "token":
		err = issueToken(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: elra_keys apikey [-bytes n] | token -user id -tenant id [-department d] [-role n] [-super] [-ttl d]")
}

func generateAPIKey(args []string) error {
	fs := flag.NewFlagSet("apikey", flag.ExitOnError)
	size := fs.Int("bytes", 32, "random bytes in the key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := utils.GenerateSecureRandomString(*size)
	if err != nil {
		return err
	}
	hash, err := utils.HashSecret(key, 0)
	if err != nil {
		return err
	}
	fmt.Printf("x-api-key:           %s\nSYSTEM_API_KEY_HASH: %s\n", key, hash)
	return nil
}

func issueToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	user := fs.String("user", "", "user id (token subject)")
	tenant := fs.String("tenant", "", "tenant id")
	department := fs.String("department", "", "department name")
	role := fs.Int("role", 1, "role level")
	super := fs.Bool("super", false, "super admin")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.IsProduction {
		return fmt.Errorf("refusing to sign tokens with a production secret")
	}

	token, err := middleware.IssueActorToken(domain.Actor{
		UserID:       *user,
		TenantID:     *tenant,
		Department:   *department,
		RoleLevel:    *role,
		IsSuperAdmin: *super,
	}, cfg.JWTSecret, cfg.JWTIssuer, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
