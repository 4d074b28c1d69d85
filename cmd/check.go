package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vesselwatch/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate environment, folders and credentials before a run",
	Long: `Run the preflight checks a pipeline run depends on: required environment
variables, the reports and translated folders (created if missing), and the
structure of the service account credentials file.

The service account email is printed so it can be granted access to the
roster spreadsheet and the Drive reports folder.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// requiredEnvVars maps required variables to a short description shown when
// they are missing. Credentials are checked separately since either of two
// variables satisfies them.
var requiredEnvVars = map[string]string{
	"GOOGLE_CLOUD_PROJECT": "Google Cloud project ID",
}

// credentialFields are the keys a service account JSON file must carry.
var credentialFields = []string{
	"type", "project_id", "private_key_id", "private_key",
	"client_email", "client_id", "auth_uri", "token_uri",
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("check")

	var problems []string

	for name, description := range requiredEnvVars {
		if os.Getenv(name) == "" {
			problems = append(problems, fmt.Sprintf("missing environment variable: %s (%s)", name, description))
		}
	}

	if os.Getenv("VESSEL_SPREADSHEET_ID") == "" && os.Getenv("VESSEL_SPREADSHEET_URL") == "" && os.Getenv("VESSEL_ROSTER_FILE") == "" {
		problems = append(problems, "set VESSEL_SPREADSHEET_ID (roster spreadsheet) or VESSEL_ROSTER_FILE (local roster)")
	}

	for _, dir := range []string{envOr("REPORTS_DIR", "input_pdfs"), envOr("TRANSLATED_DIR", "translated_pdfs")} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				problems = append(problems, fmt.Sprintf("failed to create folder %s: %v", dir, err))
			} else {
				log.Info().Str("folder", dir).Msg("Created missing folder")
			}
		}
	}

	credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	credsJSON := os.Getenv("GOOGLE_CREDENTIALS")
	switch {
	case credsPath != "":
		email, errs := validateCredentialsFile(credsPath)
		problems = append(problems, errs...)
		if email != "" {
			fmt.Printf("Service account: %s\n", email)
			fmt.Println("Make sure this account has access to the roster spreadsheet and the Drive reports folder.")
		}
	case credsJSON != "":
		email, errs := validateCredentialsJSON([]byte(credsJSON))
		problems = append(problems, errs...)
		if email != "" {
			fmt.Printf("Service account: %s\n", email)
		}
	default:
		problems = append(problems, "set GOOGLE_APPLICATION_CREDENTIALS (file path) or GOOGLE_CREDENTIALS (inline JSON)")
	}

	if len(problems) > 0 {
		fmt.Println("\nPreflight failed:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return fmt.Errorf("%d preflight problems", len(problems))
	}

	fmt.Println("All preflight checks passed.")
	return nil
}

// validateCredentialsFile checks the structure of a service account JSON file
// and returns the client email if present.
func validateCredentialsFile(path string) (string, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", []string{fmt.Sprintf("credentials file not readable at %s: %v", path, err)}
	}
	return validateCredentialsJSON(data)
}

func validateCredentialsJSON(data []byte) (string, []string) {
	var creds map[string]interface{}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", []string{fmt.Sprintf("credentials are not valid JSON: %v", err)}
	}

	var problems []string
	for _, field := range credentialFields {
		if _, ok := creds[field]; !ok {
			problems = append(problems, fmt.Sprintf("credentials missing required field: %s", field))
		}
	}
	if t, _ := creds["type"].(string); t != "" && t != "service_account" {
		problems = append(problems, fmt.Sprintf("credentials type must be 'service_account', got %q", t))
	}

	email, _ := creds["client_email"].(string)
	return email, problems
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
