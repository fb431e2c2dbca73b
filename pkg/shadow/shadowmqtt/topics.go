package shadowmqtt

// Shadow topics follow the AWS IoT device-shadow scheme: a request topic
// paired with accepted/rejected reply topics, addressed by thing name.

func topicGet(name string) string {
	return "$aws/things/" + name + "/shadow/get"
}

func topicGetAccepted(name string) string {
	return topicGet(name) + "/accepted"
}

func topicGetRejected(name string) string {
	return topicGet(name) + "/rejected"
}

func topicUpdate(name string) string {
	return "$aws/things/" + name + "/shadow/update"
}

func topicUpdateAccepted(name string) string {
	return topicUpdate(name) + "/accepted"
}

func topicUpdateRejected(name string) string {
	return topicUpdate(name) + "/rejected"
}
