// Command token issues a bearer token for a user, creating the user first if needed.
//
//	token -username alice -email alice@example.com -staff
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/bootstrap"
	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/tokens"
)

func main() {
	username := flag.String("username", "", "username to issue a token for (required)")
	email := flag.String("email", "", "email used when the user is created")
	staff := flag.Bool("staff", false, "create the user as staff")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	inj := bootstrap.BuildContainer()
	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	if cfg.Auth.JWTSecret == "" {
		log.Sugar().Fatal("auth.jwtSecret must be set, a random secret would not match the server's")
	}

	users := do.MustInvoke[repo.UserRepo](inj)
	ctx := context.Background()

	u, err := users.GetByUsername(ctx, *username)
	if errors.Is(err, apperr.ErrNotFound) {
		u = &model.User{Username: *username, Email: *email, IsStaff: *staff}
		err = users.Create(ctx, u)
		if err == nil {
			log.Sugar().Infow("user created", "id", u.ID, "username", u.Username, "staff", u.IsStaff)
		}
	}
	if err != nil {
		log.Sugar().Fatalw("load user", "err", err)
	}

	token, err := do.MustInvoke[*tokens.Service](inj).GenerateToken(u)
	if err != nil {
		log.Sugar().Fatalw("sign token", "err", err)
	}
	fmt.Println(token)
}
