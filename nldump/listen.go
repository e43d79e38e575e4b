package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/hkwi/nlcodec"
	"github.com/hkwi/nlcodec/rtlink"
	"github.com/hkwi/nlcodec/rtnl"
	"github.com/mdlayher/netlink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func newListenCommand(a *app) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Log link notifications of RTNLGRP_LINK",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
			defer stop()
			return listen(ctx, a.log, dump)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", true, "log the current links before waiting for notifications")
	return cmd
}

// linkLogger logs the messages a Hub routes to it.
type linkLogger struct {
	log logrus.FieldLogger
}

func (self linkLogger) RtListen(msg rtnl.Message) {
	entry := self.log.WithFields(logrus.Fields{
		"seq":  msg.Header.Sequence,
		"type": rtnl.TypeName(msg.Header.Type),
		"len":  msg.Header.Length,
	})
	if msg.Error != nil {
		entry.WithError(msg.Error).Warn("undecodable message")
		return
	}
	switch body := msg.Body.(type) {
	case *rtlink.LinkMessage:
		name, _ := body.Name()
		mtu, _ := body.Mtu()
		entry.WithFields(logrus.Fields{
			"index": body.Header.Index,
			"name":  name,
			"mtu":   mtu,
			"flags": body.Header.Flags.String(),
		}).Info("link")
	case *nlcodec.ErrorMessage:
		if !body.IsAck() {
			entry.WithError(body).Warn("request failed")
		}
	default:
		entry.Debug("ignored")
	}
}

func listen(ctx context.Context, log logrus.FieldLogger, dump bool) error {
	conn, err := netlink.Dial(unix.NETLINK_ROUTE, &netlink.Config{
		Groups: 1 << (unix.RTNLGRP_LINK - 1),
	})
	if err != nil {
		return errors.Wrap(err, "dial NETLINK_ROUTE")
	}
	defer conn.Close()

	hub := rtnl.NewHub()
	logger := linkLogger{log}
	hub.Add(logger)
	defer hub.Remove(logger)

	errc := make(chan error, 1)
	go func() {
		errc <- receive(conn, hub)
	}()

	if dump {
		if err := dumpLinks(ctx, conn, hub, logger, errc); err != nil {
			return err
		}
	}
	log.Info("waiting for link notifications")
	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}

func dumpLinks(ctx context.Context, conn *netlink.Conn, hub *rtnl.Hub, logger linkLogger, errc <-chan error) error {
	seq := uint32(time.Now().Unix())
	replies := hub.Expect(seq)
	// a cancelled dump must not leave receive blocked on replies
	defer hub.Cancel(seq)
	req := netlink.Message{
		Header: netlink.Header{
			Type:     unix.RTM_GETLINK,
			Flags:    netlink.Request | netlink.Dump,
			Sequence: seq,
		},
		Data: nlcodec.Marshal(&rtlink.LinkMessage{
			Header: rtlink.LinkHeader{Family: unix.AF_UNSPEC},
		}),
	}
	if _, err := conn.Send(req); err != nil {
		return errors.Wrap(err, "send RTM_GETLINK dump")
	}
	for {
		select {
		case msg, ok := <-replies:
			if !ok {
				return nil
			}
			logger.RtListen(msg)
		case err := <-errc:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}

func receive(conn *netlink.Conn, hub *rtnl.Hub) error {
	for {
		msgs, err := conn.Receive()
		if err != nil {
			return errors.Wrap(err, "receive")
		}
		if err := hub.Dispatch(batch(msgs)); err != nil {
			return err
		}
	}
}

// batch lays msgs out as the kernel sent them. Conn.Receive drops the
// NLMSG_DONE that ends a dump; it is put back since the Hub closes the
// reply channel on it.
func batch(msgs []netlink.Message) []byte {
	var b []byte
	for _, m := range msgs {
		b = append(b, nlcodec.Marshal(nlcodec.Envelope{
			Header: header(m.Header),
			Body:   nlcodec.Raw(m.Data),
		})...)
	}
	if n := len(msgs); n > 0 && msgs[n-1].Header.Flags&netlink.Multi != 0 {
		last := msgs[n-1].Header
		b = append(b, nlcodec.Marshal(nlcodec.Envelope{
			Header: nlcodec.NetlinkHeader{
				Type:     unix.NLMSG_DONE,
				Flags:    unix.NLM_F_MULTI,
				Sequence: last.Sequence,
				Port:     last.PID,
			},
			Body: nlcodec.Raw(make([]byte, 4)),
		})...)
	}
	return b
}

func header(h netlink.Header) nlcodec.NetlinkHeader {
	return nlcodec.NetlinkHeader{
		Type:     uint16(h.Type),
		Flags:    uint16(h.Flags),
		Sequence: h.Sequence,
		Port:     h.PID,
	}
}
