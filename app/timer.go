package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/timer"
)

// startTimer starts tracking on the server and mirrors the new session
// locally, then asks the browser for a position to attach to it.
func (c *TrackerView) startTimer(ctx app.Context, taskID string) {
	ctx.Async(func() {
		var active model.ActiveTimer
		if err := apiPost("/api/timer/start", map[string]string{"task_id": taskID}, &active); err != nil {
			app.Log("error starting timer:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.elapsed = 0
			c.timers.Restore(&active)
			c.state.Update(func(st *store.State) {
				st.ActiveTimer = &active
			})
			c.captureLocation(ctx)
		})
	})
}

func (c *TrackerView) pauseTimer(ctx app.Context) {
	ctx.Async(func() {
		var created model.TimeLog
		if err := apiPost("/api/timer/pause", nil, &created); err != nil {
			app.Log("error pausing timer:", err)
			return
		}
		ctx.Dispatch(func(app.Context) {
			c.elapsed = 0
			c.timers.Restore(nil)
			c.state.Update(func(st *store.State) {
				st.ActiveTimer = nil
				st.TimeLogs = append([]model.TimeLog{created}, st.TimeLogs...)
			})
		})
	})
}

// captureLocation asks the browser for the current position and attaches
// it to the running timer. Denied or unavailable geolocation is logged
// and otherwise ignored; the timer keeps running without a position.
func (c *TrackerView) captureLocation(ctx app.Context) {
	geo := app.Window().Get("navigator").Get("geolocation")
	if !geo.Truthy() {
		app.Log(timer.ErrGeolocationUnavailable)
		return
	}

	var success, failure app.Func
	release := func() {
		success.Release()
		failure.Release()
	}
	success = app.FuncOf(func(this app.Value, args []app.Value) any {
		defer release()
		if len(args) == 0 {
			return nil
		}
		coords := args[0].Get("coords")
		loc := model.Location{
			Lat: coords.Get("latitude").Float(),
			Lng: coords.Get("longitude").Float(),
		}
		ctx.Async(func() {
			if err := apiPost("/api/timer/location", loc, nil); err != nil {
				app.Log("error saving timer location:", err)
				return
			}
			ctx.Dispatch(func(app.Context) {
				c.timers.LogLocation(loc.Lat, loc.Lng)
			})
		})
		return nil
	})
	failure = app.FuncOf(func(this app.Value, args []app.Value) any {
		defer release()
		// PERMISSION_DENIED is code 1 in the Geolocation API.
		if len(args) > 0 && args[0].Get("code").Int() == 1 {
			app.Log(timer.ErrGeolocationDenied)
		} else {
			app.Log(timer.ErrGeolocationUnavailable)
		}
		return nil
	})

	geo.Call("getCurrentPosition", success, failure)
}
