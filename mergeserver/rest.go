package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo"
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/streamer"
	"github.com/lyraproj/dgo/util"
	"github.com/spf13/cobra"

	"github.com/Tyrael/chef"
	"github.com/Tyrael/chef/merge"
)

func main() {
	cmd := newCommand()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStderr(), err)
		os.Exit(1)
	}
}

var (
	logLevel string
	port     int
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "server",
		Short:  `Server - Start a merge REST server`,
		Long:   "Server - Start a REST server that merges configuration documents.\n  Responds to requests on the /merge endpoint",
		PreRun: initialize,
		Run:    startServer,
		Args:   cobra.NoArgs}

	flags := cmd.Flags()
	flags.StringVar(&logLevel, `loglevel`, `error`, `error/warn/info/debug`)
	flags.IntVar(&port, `port`, 8080, `port number to listen to`)
	return cmd
}

func initialize(_ *cobra.Command, _ []string) {
	hclog.DefaultOptions = &hclog.LoggerOptions{
		Name:  `mergeserver`,
		Level: hclog.LevelFromString(logLevel),
	}
}

func startServer(cmd *cobra.Command, _ []string) {
	e := echo.New()
	e.Logger.SetOutput(cmd.OutOrStdout())
	e.POST(`/merge`, doMerge)
	e.Logger.Fatal(e.Start(`:` + strconv.Itoa(port)))
}

// doMerge merges the `source` member of the request body into its
// `destination` member, using the merge options found in the optional
// `options` member, and responds with the merged value as JSON.
func doMerge(c echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if er, ok := r.(error); ok {
				err = c.JSON(http.StatusBadRequest, map[string]string{`message`: er.Error()})
			} else {
				panic(r)
			}
		}
	}()

	bs, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	var body dgo.Value
	if err = util.Catch(func() { body = streamer.UnmarshalJSON(bs, nil) }); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{`message`: err.Error()})
	}
	bm, ok := body.(dgo.Map)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{`message`: `request body must be a JSON object`})
	}

	om, _ := bm.Get(`options`).(dgo.Map)
	opts, err := merge.OptionsFromMap(om)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{`message`: err.Error()})
	}
	opts.Logger = hclog.Default()

	result, err := merge.Deep(bm.Get(`source`), bm.Get(`destination`), opts)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{`message`: err.Error()})
	}

	out := bytes.Buffer{}
	if err = chef.Render(chef.JSON, result, &out); err != nil {
		return err
	}
	return c.Stream(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, bytes.NewBuffer(out.Bytes()))
}
