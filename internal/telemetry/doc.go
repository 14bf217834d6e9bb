// Package telemetry provides sinks for the per-period debug record.
//
//   - [CSV]: one "%f,...\r\n" line of eight columns per period on any writer
//   - [OpenSerial]: the CSV line over a UART
//   - [MQTT]: a JSON document per period on a broker topic
//   - [Log]: debug-level zap lines
//   - [Multi]: fan-out to several sinks
//
// Telemetry is advisory. Sinks never change what the driver computes.
package telemetry
