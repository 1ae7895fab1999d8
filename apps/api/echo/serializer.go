package echoapi

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// sonicSerializer implements echo.JSONSerializer with bytedance/sonic.
type sonicSerializer struct{}

var _ echo.JSONSerializer = sonicSerializer{}

func (sonicSerializer) Serialize(ctx echo.Context, i interface{}, indent string) error {
	var (
		data []byte
		err  error
	)
	if indent != "" {
		data, err = sonic.ConfigStd.MarshalIndent(i, "", indent)
	} else {
		data, err = sonic.Marshal(i)
	}
	if err != nil {
		return err
	}
	_, err = ctx.Response().Write(append(data, '\n'))
	return err
}

func (sonicSerializer) Deserialize(ctx echo.Context, i interface{}) error {
	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to read request body").SetInternal(err)
	}
	if err = sonic.Unmarshal(data, i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body").SetInternal(err)
	}
	return nil
}
