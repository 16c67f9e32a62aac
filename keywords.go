package mcastkit

// KeywordInfo describes one library keyword for discovery surfaces
// such as the CLI listing and the script environment.
type KeywordInfo struct {
	// Name is the keyword as exposed to runners.
	Name string
	// Args summarizes the argument list.
	Args string
	// Doc is a one-line description.
	Doc string
}

// Keywords returns the library's keyword catalog in call-flow order.
func Keywords() []KeywordInfo {
	return []KeywordInfo{
		{"CreateSendSocket", "ttl", "Open a multicast send socket with the given TTL"},
		{"CreateReceiveSocket", "group, port", "Open a socket bound to the port and joined to the group"},
		{"SendMulticastMessage", "socket, group, port, message, interval, duration", "Repeat a message on an interval until the duration elapses or sending is stopped"},
		{"ReceiveMulticastMessage", "socket, timeout", "Collect every datagram arriving within the timeout, in order"},
		{"StopSending", "", "Halt all send loops and latch until reset"},
		{"ResetSending", "", "Release the stop latch for later send loops"},
		{"ShouldMessagesBeEqual", "sent, received", "Fail unless the sent message appears among the received ones"},
		{"ShouldMessagesNotBeEqual", "sent, received", "Fail if the sent message appears among the received ones"},
		{"Ping", "host", "Report whether a host answers an ICMP echo"},
		{"GetFrameCount", "videoFile", "Count the frames in a capture file"},
		{"ExtractVideoFrames", "videoFile, format, outputDir", "Write every capture frame as a numbered still image"},
		{"RemoveVideoFrameFiles", "format, dir", "Delete still images of the given format from a directory"},
		{"ShouldBeEqualAsFrames", "srcImg, dstImg", "Fail unless two stills show the same picture"},
		{"GetStreamingFrame", "url", "Grab one decoded frame from an MJPEG multicast stream"},
		{"ConvertFrameToImage", "frame, filename, width, height", "Write a frame to disk as a still image, optionally resized"},
	}
}
