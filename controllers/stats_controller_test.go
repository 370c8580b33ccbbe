package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	coupon := seedCoupon(t, db, store.ID, true)
	seedCoupon(t, db, store.ID, false)
	createTestUser(t, db, 0)

	// Record one copy so today's counter is non-zero.
	cc := NewCouponController(db)
	ctx, w := authedRequest(0, http.MethodPost, "/", "")
	ctx.Params = gin.Params{{Key: "id", Value: fmt.Sprint(coupon.ID)}}
	cc.CopyCoupon(ctx)
	requireStatus(t, w, http.StatusOK)

	sc := NewStatsController(db)
	ctx, w = authedRequest(0, http.MethodGet, "/api/v1/stats", "")
	sc.GetStats(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 1, data["stores"])
	require.EqualValues(t, 1, data["coupons"], "only approved coupons count")
	require.EqualValues(t, 1, data["users"])
	require.EqualValues(t, 1, data["copies_today"])
}
