package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	cfg config
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "nldump",
		Short: "Decode netlink messages",
		Long: `nldump decodes netlink messages with the nlcodec family packages.

By default each message is walked generically: the fixed header is printed
as hex and the attributes as a named tree. With --strict the typed codecs
are used instead and the first malformed message is an error.

Every flag can also be set through the environment, e.g. NLDUMP_FAMILY=xfrm,
or in the file given by --config.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			log.SetOutput(cmd.ErrOrStderr())
			a.cfg, a.log = cfg, log
			return nil
		},
	}
	addConfigFlags(root.PersistentFlags())
	root.AddCommand(newDecodeCommand(a))
	root.AddCommand(newListenCommand(a))
	return root
}
