// Command issue-token signs an API token for an existing user, using the same
// secret and lifetime as the API server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"procurement/internal/auth"
	"procurement/internal/config"
	"procurement/models"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	if err := run(os.Args[1:], cfg.JWT, os.Stdout); err != nil {
		log.Fatalf("Cannot issue token: %v", err)
	}
}

func run(args []string, jwtCfg config.JWTConfig, out io.Writer) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	var (
		userID       = fs.Int64("user", 0, "User id (required)")
		role         = fs.String("role", "", "ADMIN, EMPLOYEE, VENDOR or CONTRACTOR (required)")
		vendorID     = fs.Int64("vendor", 0, "Vendor id, for VENDOR tokens")
		contractorID = fs.Int64("contractor", 0, "Contractor id, for CONTRACTOR tokens")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor := models.Actor{
		UserID:       *userID,
		Role:         models.Role(strings.ToUpper(*role)),
		VendorID:     *vendorID,
		ContractorID: *contractorID,
	}
	switch {
	case actor.UserID <= 0:
		return errors.New("-user is required")
	case !models.ValidRole(actor.Role):
		return fmt.Errorf("unknown role %q", *role)
	case actor.Role == models.RoleVendor && actor.VendorID <= 0:
		return errors.New("-vendor is required for VENDOR tokens")
	case actor.Role == models.RoleContractor && actor.ContractorID <= 0:
		return errors.New("-contractor is required for CONTRACTOR tokens")
	}

	token, err := auth.GenerateJWT(actor, jwtCfg.Secret, jwtCfg.ExpiresIn)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
