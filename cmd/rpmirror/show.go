package main

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
	dbbadger "github.com/youweixue/RipplePower/internal/infrastructure/storage/db/badger"
)

var show = cli.Command{
	Name:  "show",
	Usage: "print the account roots stored by a stopped daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "the data directory of the daemon",
			Value: defaultDatadir,
		},
		&cli.StringFlag{
			Name:  "account",
			Usage: "print only the snapshot of this account",
		},
	},
	Action: showAction,
}

func showAction(ctx *cli.Context) error {
	repoManager, err := openRepoManager(ctx)
	if err != nil {
		return err
	}
	defer repoManager.Close()

	repo := repoManager.AccountRootRepository()

	if account := ctx.String("account"); account != "" {
		root, err := repo.GetAccountRoot(ctx.Context, account)
		if err != nil {
			return err
		}
		return printJSON(ctx, application.NewAccountRootInfo(*root, ""))
	}

	roots, err := repo.GetAllAccountRoots(ctx.Context)
	if err != nil {
		return err
	}
	return printJSON(ctx, toAccountRootInfos(roots))
}

// openRepoManager opens the badger store of the daemon at --datadir. The
// daemon must be stopped.
func openRepoManager(ctx *cli.Context) (ports.RepoManager, error) {
	logger := log.New()
	logger.SetLevel(log.WarnLevel)

	return dbbadger.NewRepoManager(
		filepath.Join(ctx.String("datadir"), "db"), logger,
	)
}

func toAccountRootInfos(roots []domain.AccountRoot) []application.AccountRootInfo {
	infos := make([]application.AccountRootInfo, 0, len(roots))
	for _, root := range roots {
		infos = append(infos, application.NewAccountRootInfo(root, ""))
	}
	return infos
}
