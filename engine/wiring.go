package engine

import (
	"context"
	"time"

	"vehiclegw/metrics"
	"vehiclegw/protocol"
)

func (e *Engine) wireEventHandlers() {
	// Engine commands: log and publish on the command topic
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(EngineCommandEvent)
		e.log.Info("engine command", "id", ev.VehicleID, "action", ev.Action, "status", ev.Status, "reason", ev.Reason)
		e.enqueue(protocol.TypeEngineCommand, e.cfg.Messaging.CommandTopic, ev.VehicleID, protocol.EngineCommand{
			VehicleID: ev.VehicleID,
			Action:    ev.Action,
			Status:    ev.Status,
			Reason:    ev.Reason,
		})
	}, EventEngineCommand)

	// Upstream failures: remember for /healthz and publish on the events topic
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(UpstreamFailureEvent)
		e.recordFailure(evt.Timestamp)
		detail := ""
		if ev.Err != nil {
			detail = ev.Err.Error()
		}
		e.enqueue(protocol.TypeUpstreamFailure, e.cfg.Messaging.EventsTopic, ev.VehicleID, protocol.UpstreamFailure{
			Operation: ev.Operation,
			VehicleID: ev.VehicleID,
			Detail:    detail,
		})
	}, EventUpstreamFailure)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ConnectionEvent)
		if evt.Type == EventMessagingConnected {
			e.log.Info(ev.Detail)
		} else {
			e.log.Warn(ev.Detail)
		}
	}, EventMessagingConnected, EventMessagingDisconnected)
}

// enqueue wraps payload in an envelope and queues it for the publish loop.
// Events are dropped when messaging is disabled or the queue is full.
func (e *Engine) enqueue(msgType, topic, key string, payload any) {
	if e.msgClient == nil {
		return
	}
	env, err := protocol.NewEnvelope(msgType,
		protocol.Address{Role: protocol.RoleGateway, Node: e.cfg.Messaging.NodeID},
		protocol.Address{Role: protocol.RoleBroadcast},
		payload,
	)
	if err != nil {
		e.log.Error(err, "build envelope", "type", msgType)
		return
	}
	select {
	case e.outbox <- outbound{topic: topic, key: key, env: env}:
	default:
		metrics.RecordPublish(msgType, false)
		e.log.Warn("event queue full, dropping", "type", msgType, "id", env.ID)
	}
}

func (e *Engine) publishLoop() {
	defer e.wg.Done()
	for {
		select {
		case msg := <-e.outbox:
			e.publish(msg)
		case <-e.stopChan:
			for {
				select {
				case msg := <-e.outbox:
					e.publish(msg)
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) publish(msg outbound) {
	if msg.env.Expired(time.Now().UTC()) {
		metrics.RecordPublish(msg.env.Type, false)
		e.log.Warn("event expired before publish, dropping", "type", msg.env.Type, "id", msg.env.ID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := e.msgClient.PublishEnvelope(ctx, msg.topic, msg.key, msg.env)
	metrics.RecordPublish(msg.env.Type, err == nil)
	if err != nil {
		e.log.Error(err, "publish event", "type", msg.env.Type, "topic", msg.topic, "id", msg.env.ID)
	}
}
