package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/config"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// newTokenCommand signs access tokens with JWT_SECRET_KEY for local testing
// of the API. Production tokens come from the identity service.
func newTokenCommand() *cobra.Command {
	var (
		employeeID string
		role       string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a local access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch employee.Role(role) {
			case employee.RoleOwner, employee.RoleManager, employee.RoleEmployee:
			default:
				return fmt.Errorf("--role must be owner, manager or employee")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret).IssueAccessToken(jwt.Claims{
				EmployeeID: employeeID,
				Role:       employee.Role(role),
			}, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	cmd.Flags().StringVar(&role, "role", string(employee.RoleEmployee), "owner, manager or employee")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}
