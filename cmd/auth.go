package cmd

import (
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/celestiaorg/da-matrix/api/rpc/perms"
	"github.com/celestiaorg/da-matrix/nodebuilder"
)

var ttlFlag = "ttl"

func AuthCmd(fsets ...*flag.FlagSet) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "auth [permission-level (e.g. public || read || admin)]",
		Short: "Signs and outputs a JWT token with the given permissions.",
		Long: "Signs and outputs a JWT token with the given permissions. NOTE: only use this command when " +
			"the node has already been initialized.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := cmd.Flags().GetDuration(ttlFlag)
			if err != nil {
				return err
			}

			token, err := newToken(StorePath(cmd.Context()), args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Printf("%s", token)
			return nil
		},
	}

	cmd.Flags().Duration(ttlFlag, 0, "Time the token stays valid for (default: forever)")
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

// newToken signs a token with the given permissions by the secret of the Store under 'path'.
func newToken(path, perm string, ttl time.Duration) (string, error) {
	permissions, err := convertToPerms(perm)
	if err != nil {
		return "", err
	}

	key, err := nodebuilder.Secret(path)
	if err != nil {
		return "", err
	}
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return "", err
	}

	token, err := perms.NewTokenWithPerms(signer, permissions, ttl)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

func convertToPerms(perm string) ([]auth.Permission, error) {
	perms, ok := stringsToPerms[perm]
	if !ok {
		return nil, fmt.Errorf("invalid permission specified: %s", perm)
	}
	return perms, nil
}

var stringsToPerms = map[string][]auth.Permission{
	"public": perms.DefaultPerms,
	"read":   perms.ReadPerms,
	"admin":  perms.AllPerms,
}
