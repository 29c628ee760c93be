package handlers

import (
	"context"
	"net/http"

	"github.com/suryssss/SkillStones-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type WSHandler struct {
	Hub                  *ws.Hub
	JWTSecret            string
	WSInsecureSkipVerify bool
}

// control frames sent by the client to enter or leave a stone's room
type controlFrame struct {
	Type    string `json:"type"` // "join-stone" | "leave-stone"
	StoneID uint   `json:"stone_id"`
}

func (h *WSHandler) Handle(c *gin.Context) {
	// Browser WebSocket clients cannot set an Authorization header,
	// so the token rides in a query param.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	userID, err := parseUserIDFromJWT(tokenStr, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	opts := &websocket.AcceptOptions{}
	// Accept rejects cross-origin by default; skip verification only in
	// dev setups where the frontend runs on another port.
	if h.WSInsecureSkipVerify {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}

	client := h.Hub.Register(userID)
	defer h.Hub.Unregister(client)
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go func() {
		defer cancel()
		h.readControlFrames(ctx, conn, client)
	}()

	// block writing events until the client disconnects
	client.Serve(ctx, conn)
}

func (h *WSHandler) readControlFrames(ctx context.Context, conn *websocket.Conn, client *ws.Client) {
	for {
		var frame controlFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return // disconnect or cancel
		}

		switch frame.Type {
		case "join-stone":
			h.Hub.Join(client, frame.StoneID)
		case "leave-stone":
			h.Hub.Leave(client, frame.StoneID)
		}
	}
}

func parseUserIDFromJWT(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}

	if v, ok := claims["user_id"].(float64); ok {
		return uint(v), nil
	}
	return 0, jwt.ErrTokenInvalidClaims
}
