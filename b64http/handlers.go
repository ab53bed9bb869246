package b64http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/presbrey/b64/base64"
	"github.com/presbrey/b64/echoprom"
)

type lengthResponse struct {
	Length int `json:"length"`
}

type encodeLengthRequest struct {
	N string `query:"n" validate:"required,number"`
}

type transcodeRequest struct {
	Op      string `json:"op" validate:"required,oneof=encode decode"`
	Variant string `json:"variant" validate:"omitempty,variant"`
	Data    string `json:"data"`
}

type transcodeResponse struct {
	Op         string `json:"op"`
	Variant    string `json:"variant"`
	Data       string `json:"data"`
	DataBase64 string `json:"data_base64,omitempty"`
}

// encoding picks the codec from ?variant= or the configured default.
func (s *Server) encoding(c echo.Context) (*base64.Encoding, error) {
	return s.encodingFor(c.QueryParam("variant"))
}

func (s *Server) encodingFor(name string) (*base64.Encoding, error) {
	if name == "" {
		return s.cfg.Encoding(), nil
	}
	v, err := base64.ParseVariant(name)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return base64.For(v), nil
}

// readText reads a request body holding encoded text, dropping the trailing
// newline that most clients add.
func readText(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(body, "\r\n"), nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEncode(c echo.Context) error {
	enc, err := s.encoding(c)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	out := make([]byte, base64.EncodeLength(len(body)))
	n, err := enc.Encode(out, body)
	echoprom.ObserveCodec("encode", enc.Variant(), len(body), err)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, out[:n])
}

func (s *Server) handleDecode(c echo.Context) error {
	enc, err := s.encoding(c)
	if err != nil {
		return err
	}
	text, err := readText(c)
	if err != nil {
		return err
	}

	out, err := enc.AppendDecode(nil, text)
	echoprom.ObserveCodec("decode", enc.Variant(), len(text), err)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
}

func (s *Server) handleEncodeLength(c echo.Context) error {
	var req encodeLengthRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	n, err := strconv.Atoi(req.N)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "n out of range")
	}
	m, err := base64.CheckEncodeLength(n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lengthResponse{Length: m})
}

func (s *Server) handleDecodeLength(c echo.Context) error {
	text, err := readText(c)
	if err != nil {
		return err
	}
	n, err := base64.DecodeLength(text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lengthResponse{Length: n})
}

func (s *Server) handleTranscode(c echo.Context) error {
	var req transcodeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	enc, err := s.encodingFor(req.Variant)
	if err != nil {
		return err
	}

	resp := transcodeResponse{Op: req.Op, Variant: enc.Variant().String()}
	switch req.Op {
	case "encode":
		resp.Data = enc.EncodeToString([]byte(req.Data))
		echoprom.ObserveCodec("encode", enc.Variant(), len(req.Data), nil)
	case "decode":
		out, err := enc.DecodeString(req.Data)
		echoprom.ObserveCodec("decode", enc.Variant(), len(req.Data), err)
		if err != nil {
			return err
		}
		if utf8.Valid(out) {
			resp.Data = string(out)
		} else {
			resp.DataBase64 = base64.StdEncoding.EncodeToString(out)
		}
	}
	return c.JSON(http.StatusOK, resp)
}
