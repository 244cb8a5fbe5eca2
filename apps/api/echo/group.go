package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

type groupApi struct {
	svc *grouping.Service
}

func registerGroupAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *grouping.Service) {
	api := groupApi{svc: svc}

	cg := g.Group("/classes/:classID", jwt, teacherMiddleware())
	cg.POST("/groups", api.generate)
	cg.GET("/groups", api.query)
	cg.DELETE("/groups", api.clear)
	cg.POST("/groups/preview", api.preview)
	cg.GET("/groups/export", api.export)
	cg.GET("/profiles", api.profiles)
}

type generateRequest struct {
	grouping.Options
	// Notify emails a summary of the run to the caller.
	Notify bool `json:"notify"`
}

func (api *groupApi) bindOptions(ctx echo.Context) (generateRequest, error) {
	data := generateRequest{Options: grouping.DefaultOptions("")}
	if err := ctx.Bind(&data); err != nil {
		return generateRequest{}, errors.Wrap(err, "binding to generateRequest")
	}
	return data, nil
}

// trapNotFound maps "not found" domain errors to a 404.
func trapNotFound(err error) error {
	switch errors.Cause(err) {
	case roster.ErrClassNotFound, grouping.ErrGroupsNotFound:
		return errHttpNotFound
	}
	return err
}

// Handlers

func (api *groupApi) generate(ctx echo.Context) error {
	data, err := api.bindOptions(ctx)
	if err != nil {
		return err
	}

	var notify []mail.Address
	if data.Notify {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.Email != "" {
			notify = append(notify, mail.Address{Name: claims.Username, Address: claims.Email})
		}
	}

	res, err := api.svc.Generate(ctx.Request().Context(), ctx.Param("classID"), data.Options, notify...)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *groupApi) preview(ctx echo.Context) error {
	data, err := api.bindOptions(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.Preview(ctx.Request().Context(), ctx.Param("classID"), data.Options)
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *groupApi) query(ctx echo.Context) error {
	groups, err := api.svc.QueryGroups(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) clear(ctx echo.Context) error {
	if _, err := api.svc.DeleteGroups(ctx.Request().Context(), ctx.Param("classID")); err != nil {
		return trapNotFound(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *groupApi) export(ctx echo.Context) error {
	exporter := api.svc.Exporter()
	if exporter == nil {
		return errHttpNotFound
	}

	classID := ctx.Param("classID")
	buf := new(bytes.Buffer)
	if err := api.svc.Export(ctx.Request().Context(), buf, classID); err != nil {
		return trapNotFound(err)
	}

	ctx.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exporter.Filename(classID)),
	)
	return ctx.Blob(http.StatusOK, exporter.ContentType(), buf.Bytes())
}

func (api *groupApi) profiles(ctx echo.Context) error {
	profiles, err := api.svc.Profiles(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return trapNotFound(err)
	}
	return ctx.JSON(http.StatusOK, profiles)
}
