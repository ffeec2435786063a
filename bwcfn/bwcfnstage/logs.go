package bwcfnstage

import (
	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
)

// AccessLogFormat is the access log line written by API Gateway. It is not
// configurable.
const AccessLogFormat = "requestId: $context.requestId" +
	", ip: $context.identity.sourceIp" +
	", caller: $context.identity.caller" +
	", user: $context.identity.user" +
	", requestTime: $context.requestTime" +
	", httpMethod: $context.httpMethod" +
	", resourcePath: $context.resourcePath" +
	", status: $context.status" +
	", protocol: $context.protocol" +
	", responseLength: $context.responseLength"

const (
	logGroupType = "AWS::Logs::LogGroup"

	// executionLoggingLevel is the level of method level execution logs.
	executionLoggingLevel = "INFO"
)

// Logging is what the REST API logging settings fan out into. Every field is
// optional.
type Logging struct {
	// LogGroupID is the logical id LogGroup is stored under.
	LogGroupID string
	LogGroup   *bwcfndoc.Resource
	// AccessLogSetting becomes the stage's AccessLogSetting property.
	AccessLogSetting *bwcfndoc.Map
	// MethodSettings becomes the stage's MethodSettings property.
	MethodSettings []any
}

// Empty reports whether no logging output was synthesized.
func (l Logging) Empty() bool {
	return l.LogGroup == nil && l.AccessLogSetting == nil && len(l.MethodSettings) == 0
}

// SynthesizeLogging derives the access log group, the access log setting and
// the method settings from the logging configuration.
//
// Access logging, which owns the log group, and execution logging, which owns
// the method settings, are toggled independently. retention and policy only
// apply to the log group and are ignored without it.
func SynthesizeLogging(
	logs bwcfnconfig.LogsSetting,
	retention *int,
	policy *bwcfndoc.Map,
	names bwcfnnaming.Provider,
) Logging {
	var out Logging

	if logs.AccessLoggingEnabled() {
		out.LogGroupID = names.LogGroupLogicalID()
		out.LogGroup = newLogGroup(names.LogGroupName(), retention, policy)

		out.AccessLogSetting = bwcfndoc.NewMap()
		out.AccessLogSetting.Set("DestinationArn", getAtt(out.LogGroupID, "Arn"))
		out.AccessLogSetting.Set("Format", AccessLogFormat)
	}

	if logs.ExecutionLoggingEnabled() {
		setting := bwcfndoc.NewMap()
		setting.Set("HttpMethod", "*")
		setting.Set("ResourcePath", "/*")
		setting.Set("LoggingLevel", executionLoggingLevel)
		setting.Set("DataTraceEnabled", true)
		out.MethodSettings = []any{setting}
	}

	return out
}

func newLogGroup(name string, retention *int, policy *bwcfndoc.Map) *bwcfndoc.Resource {
	lg := &bwcfndoc.Resource{Type: logGroupType}
	lg.SetProperty("LogGroupName", name)
	if retention != nil {
		lg.SetProperty("RetentionInDays", *retention)
	}
	if policy != nil {
		lg.SetProperty("DataProtectionPolicy", policy)
	}
	return lg
}

func ref(id string) *bwcfndoc.Map {
	m := bwcfndoc.NewMap()
	m.Set("Ref", id)
	return m
}

func getAtt(id, attr string) *bwcfndoc.Map {
	m := bwcfndoc.NewMap()
	m.Set("Fn::GetAtt", []any{id, attr})
	return m
}
